// Package metrics exposes the Prometheus surface for this service,
// grounded on the teacher's internal/metrics/metrics.go but rescoped
// from CI/CD queue metrics to agent-job and container-health metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	JobsLaunched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_orchestrator_jobs_launched_total",
			Help: "Total number of jobs launched",
		},
		[]string{"result"},
	)

	JobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_orchestrator_jobs_completed_total",
			Help: "Total number of jobs observed in a terminal status",
		},
		[]string{"status"},
	)

	JobsCancelled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_orchestrator_jobs_cancelled_total",
			Help: "Total number of cancellation requests",
		},
		[]string{"result"},
	)

	ContainerCPUPercent = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "agent_orchestrator_container_cpu_percent",
			Help: "Most recently sampled CPU usage percentage per container",
		},
		[]string{"container_id"},
	)

	ContainerMemoryPercent = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "agent_orchestrator_container_memory_percent",
			Help: "Most recently sampled memory usage percentage per container",
		},
		[]string{"container_id"},
	)

	ContainerHealthStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "agent_orchestrator_container_health_status",
			Help: "Classified health status per container (1=healthy,0.5=warning,0=critical,-1=unknown)",
		},
		[]string{"container_id"},
	)

	SystemCPUPercent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "agent_orchestrator_system_cpu_percent",
		Help: "Host CPU usage percentage",
	})

	SystemMemoryPercent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "agent_orchestrator_system_memory_percent",
		Help: "Host memory usage percentage",
	})

	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_orchestrator_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)
)

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordJobLaunch records whether a job launch succeeded or errored.
func RecordJobLaunch(result string) {
	JobsLaunched.WithLabelValues(result).Inc()
}

// RecordJobTerminal records a job reaching a terminal status.
func RecordJobTerminal(status string) {
	JobsCompleted.WithLabelValues(status).Inc()
}

// RecordCancellation records the outcome of a cancel request.
func RecordCancellation(result string) {
	JobsCancelled.WithLabelValues(result).Inc()
}

// UpdateContainerUsage updates the per-container CPU/memory gauges.
func UpdateContainerUsage(containerID string, cpuPercent, memoryPercent float64) {
	ContainerCPUPercent.WithLabelValues(containerID).Set(cpuPercent)
	ContainerMemoryPercent.WithLabelValues(containerID).Set(memoryPercent)
}

// healthStatusValue maps a classification string onto the gauge's
// numeric encoding.
func healthStatusValue(status string) float64 {
	switch status {
	case "healthy":
		return 1
	case "warning":
		return 0.5
	case "critical":
		return 0
	default:
		return -1
	}
}

// UpdateContainerHealth sets the health gauge for a container.
func UpdateContainerHealth(containerID, status string) {
	ContainerHealthStatus.WithLabelValues(containerID).Set(healthStatusValue(status))
}

// UpdateSystemUsage updates the host-wide CPU/memory gauges.
func UpdateSystemUsage(cpuPercent, memoryPercent float64) {
	SystemCPUPercent.Set(cpuPercent)
	SystemMemoryPercent.Set(memoryPercent)
}

// RecordAPIRequest records one HTTP request's method/endpoint/status.
func RecordAPIRequest(method, endpoint, statusCode string) {
	APIRequests.WithLabelValues(method, endpoint, statusCode).Inc()
}
