package handlers

import (
	"net/http"

	"github.com/haroon0x/agent-orchestrator/internal/model"
)

// HealthSupervisor is the subset of C8's supervisor the HTTP layer
// depends on, grounded on the original's monitoring.py router which
// exposes health_monitor.get_health_summary() over GET /monitoring/health.
type HealthSupervisor interface {
	Latest() (model.HealthSample, model.HealthStatus, []model.Alert)
}

type healthSummaryResponse struct {
	Status     model.HealthStatus              `json:"status"`
	System     model.SystemHealth              `json:"system_health"`
	Containers map[string]model.ContainerHealth `json:"container_health"`
	Alerts     []model.Alert                   `json:"alerts"`
}

// HealthSummary handles GET /monitoring/health, mirroring the shape of
// the original's get_health_summary endpoint.
func HealthSummary(sup HealthSupervisor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sample, status, alerts := sup.Latest()
		writeJSON(w, http.StatusOK, healthSummaryResponse{
			Status:     status,
			System:     sample.System,
			Containers: sample.Containers,
			Alerts:     alerts,
		})
	}
}
