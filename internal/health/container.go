package health

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/haroon0x/agent-orchestrator/internal/model"
	"github.com/haroon0x/agent-orchestrator/internal/runtime"
)

// AgentContainerMarker is the substring spec.md §4.8 uses to identify
// which running containers belong to this system ("each container
// whose name contains the agent marker").
const AgentContainerMarker = "agent_job_"

// ServiceCheck is one in-container network service to probe, grounded
// on health_monitor.py's default service set (VNC, X server, noVNC,
// Jupyter) — configurable per deployment.
type ServiceCheck struct {
	Name string
	Addr string // host:port reachable from the orchestrator
}

// DefaultServiceChecks is empty: this deployment doesn't expose any of
// the original's desktop-automation services (VNC/X/noVNC) to the host
// network, so there's nothing to probe by default. Callers that do run
// those sidecars can pass their own []ServiceCheck to NewSupervisor.
var DefaultServiceChecks []ServiceCheck

// ProbeServices dials each check with a bounded timeout and reports
// "healthy" or "unreachable: <err>" per service name.
func ProbeServices(ctx context.Context, checks []ServiceCheck, timeout time.Duration) map[string]string {
	statuses := make(map[string]string, len(checks))
	for _, check := range checks {
		d := net.Dialer{Timeout: timeout}
		conn, err := d.DialContext(ctx, "tcp", check.Addr)
		if err != nil {
			statuses[check.Name] = fmt.Sprintf("unreachable: %s", err.Error())
			continue
		}
		conn.Close()
		statuses[check.Name] = "healthy"
	}
	return statuses
}

// SampleContainer turns a raw runtime sample plus service probe results
// into a classified ContainerHealth record, grounded on
// metrics_collector.py's per-container computation.
func SampleContainer(rs runtime.ResourceSample, servicesStatus map[string]string, now time.Time) model.ContainerHealth {
	health := model.ContainerHealth{
		ContainerID:    rs.ContainerID,
		Name:           strings.TrimPrefix(rs.Name, "/"),
		Status:         rs.Status,
		MemoryUsage:    rs.MemoryUsage,
		MemoryLimit:    rs.MemoryLimit,
		NetworkRx:      rs.NetworkRxBytes,
		NetworkTx:      rs.NetworkTxBytes,
		DiskUsage:      rs.BlkioBytes,
		RestartCount:   rs.RestartCount,
		LastCheck:      now.Unix(),
		ServicesStatus: servicesStatus,
	}

	health.CPUPercent = cpuPercent(rs)
	if rs.MemoryLimit > 0 {
		health.MemoryPercent = float64(rs.MemoryUsage) / float64(rs.MemoryLimit) * 100
	}
	if rs.StartedAt > 0 {
		health.UptimeSeconds = now.Sub(time.Unix(rs.StartedAt, 0)).Seconds()
	}

	health.HealthStatus = ClassifyContainer(health.CPUPercent, health.MemoryPercent, servicesStatus)
	return health
}

// cpuPercent computes the Docker-style delta/delta CPU usage
// percentage: (cpuDelta/systemDelta) * onlineCPUs * 100.
func cpuPercent(rs runtime.ResourceSample) float64 {
	cpuDelta := float64(rs.CPUTotalUsage) - float64(rs.PreCPUTotalUsage)
	sysDelta := float64(rs.CPUSystemUsage) - float64(rs.PreSystemUsage)
	if sysDelta <= 0 || cpuDelta < 0 {
		return 0
	}
	online := rs.OnlineCPUs
	if online <= 0 {
		online = 1
	}
	return (cpuDelta / sysDelta) * float64(online) * 100
}

// IsAgentContainer reports whether a container's name carries the
// marker this system uses for its own job containers.
func IsAgentContainer(name string) bool {
	return strings.Contains(name, AgentContainerMarker)
}
