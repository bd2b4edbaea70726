package health

import "github.com/haroon0x/agent-orchestrator/internal/model"

// ClassifyContainer implements the exact threshold table from spec.md
// §4.8, grounded on health_monitor.py's classification ladder.
func ClassifyContainer(cpuPercent, memoryPercent float64, servicesStatus map[string]string) model.HealthStatus {
	unhealthyServices := 0
	for _, status := range servicesStatus {
		if status != "healthy" {
			unhealthyServices++
		}
	}

	switch {
	case cpuPercent > 95 || memoryPercent > 95 || unhealthyServices >= 2:
		return model.HealthCritical
	case cpuPercent > 80 || memoryPercent > 80 || unhealthyServices == 1:
		return model.HealthWarning
	default:
		return model.HealthHealthy
	}
}

// DeriveAlerts scans a health sample for threshold breaches and
// non-healthy container statuses, grounded on health_monitor.py's
// alert-generation pass.
func DeriveAlerts(sys model.SystemHealth, containers map[string]model.ContainerHealth) []model.Alert {
	var alerts []model.Alert

	if sys.CPUPercent > 95 {
		alerts = append(alerts, model.Alert{Threshold: "system_cpu_critical", Observed: sys.CPUPercent})
	} else if sys.CPUPercent > 80 {
		alerts = append(alerts, model.Alert{Threshold: "system_cpu_warning", Observed: sys.CPUPercent})
	}
	if sys.MemoryPercent > 95 {
		alerts = append(alerts, model.Alert{Threshold: "system_memory_critical", Observed: sys.MemoryPercent})
	} else if sys.MemoryPercent > 80 {
		alerts = append(alerts, model.Alert{Threshold: "system_memory_warning", Observed: sys.MemoryPercent})
	}

	for id, c := range containers {
		switch c.HealthStatus {
		case model.HealthCritical:
			alerts = append(alerts, model.Alert{Threshold: "container_critical", Observed: c.CPUPercent, ContainerID: id})
		case model.HealthWarning:
			alerts = append(alerts, model.Alert{Threshold: "container_warning", Observed: c.CPUPercent, ContainerID: id})
		case model.HealthUnknown:
			alerts = append(alerts, model.Alert{Threshold: "container_unknown", ContainerID: id})
		}
	}

	return alerts
}

// OverallStatus reduces a system sample and its containers to a single
// status: critical if any part is critical, warning if any part is
// warning (and nothing is critical), unknown if any container is
// unknown (and nothing is worse), else healthy.
func OverallStatus(sys model.SystemHealth, containers map[string]model.ContainerHealth) model.HealthStatus {
	systemStatus := ClassifyContainer(sys.CPUPercent, sys.MemoryPercent, nil)

	worst := systemStatus
	for _, c := range containers {
		if worse(c.HealthStatus, worst) {
			worst = c.HealthStatus
		}
	}
	return worst
}

func worse(a, b model.HealthStatus) bool {
	return rank(a) > rank(b)
}

func rank(s model.HealthStatus) int {
	switch s {
	case model.HealthCritical:
		return 3
	case model.HealthWarning:
		return 2
	case model.HealthUnknown:
		return 1
	default:
		return 0
	}
}
