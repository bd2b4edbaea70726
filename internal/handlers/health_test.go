package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haroon0x/agent-orchestrator/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSupervisor struct {
	sample model.HealthSample
	status model.HealthStatus
	alerts []model.Alert
}

func (f *fakeSupervisor) Latest() (model.HealthSample, model.HealthStatus, []model.Alert) {
	return f.sample, f.status, f.alerts
}

func TestMonitoringHealthReturnsSupervisorSummary(t *testing.T) {
	ResetAppMux()
	t.Cleanup(ResetAppMux)

	sup := &fakeSupervisor{
		sample: model.HealthSample{
			System:     model.SystemHealth{CPUPercent: 12.5},
			Containers: map[string]model.ContainerHealth{"c1": {ContainerID: "c1"}},
		},
		status: model.HealthWarning,
		alerts: []model.Alert{{Threshold: "cpu_warning", Observed: 85}},
	}
	SetHealthSupervisor(sup)
	mux := GetAppMux(&fakeLauncher{}, &fakeRegistry{jobs: map[string]model.Job{}})

	req := httptest.NewRequest(http.MethodGet, "/monitoring/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp healthSummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.HealthWarning, resp.Status)
	assert.Equal(t, 12.5, resp.System.CPUPercent)
	assert.Len(t, resp.Alerts, 1)
}

func TestMonitoringHealthWithoutSupervisorReturns503(t *testing.T) {
	ResetAppMux()
	t.Cleanup(ResetAppMux)

	mux := GetAppMux(&fakeLauncher{}, &fakeRegistry{jobs: map[string]model.Job{}})

	req := httptest.NewRequest(http.MethodGet, "/monitoring/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
