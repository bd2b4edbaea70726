package model

// HealthStatus classifies a container or the system as a whole.
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthWarning  HealthStatus = "warning"
	HealthCritical HealthStatus = "critical"
	HealthUnknown  HealthStatus = "unknown"
)

// ContainerHealth is one sampling pass over a single container.
type ContainerHealth struct {
	ContainerID    string            `json:"container_id"`
	Name           string            `json:"name"`
	Status         string            `json:"status"`
	CPUPercent     float64           `json:"cpu_percent"`
	MemoryUsage    int64             `json:"memory_usage"`
	MemoryLimit    int64             `json:"memory_limit"`
	MemoryPercent  float64           `json:"memory_percent"`
	NetworkRx      int64             `json:"network_rx"`
	NetworkTx      int64             `json:"network_tx"`
	DiskUsage      int64             `json:"disk_usage"`
	UptimeSeconds  float64           `json:"uptime"`
	RestartCount   int               `json:"restart_count"`
	LastCheck      int64             `json:"last_check"`
	HealthStatus   HealthStatus      `json:"health_status"`
	ServicesStatus map[string]string `json:"services_status"`
	ErrorMessage   string            `json:"error_message,omitempty"`
}

// SystemHealth is one sampling pass over the host.
type SystemHealth struct {
	CPUPercent       float64   `json:"cpu_percent"`
	MemoryPercent    float64   `json:"memory_percent"`
	DiskPercent      float64   `json:"disk_percent"`
	LoadAverage      []float64 `json:"load_average"`
	ActiveContainers int       `json:"active_containers"`
	FailedContainers int       `json:"failed_containers"`
	Timestamp        int64     `json:"timestamp"`
}

// HealthSample bundles the two sides of a single sampling pass. The
// overall status and active alerts are derived from it on demand and
// are not stored here.
type HealthSample struct {
	System     SystemHealth               `json:"system_health"`
	Containers map[string]ContainerHealth `json:"container_health"`
}

// Alert is a single threshold breach surfaced by the health summary.
type Alert struct {
	Threshold   string  `json:"threshold"`
	Observed    float64 `json:"observed"`
	ContainerID string  `json:"container_id,omitempty"`
}

// Aggregate is the avg/min/max of a metric over a time window.
type Aggregate struct {
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}
