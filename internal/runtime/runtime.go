// Package runtime defines C2: the abstraction over container
// create/inspect/stats/remove/logs, decoupling the job lifecycle
// manager from the concrete container engine.
package runtime

import (
	"context"
	"errors"
)

// ErrNotFound is returned (or wrapped) by Inspect/Stats/Logs when the
// handle no longer corresponds to a known container. Remove treats a
// missing container as success, not an error.
var ErrNotFound = errors.New("container not found")

// IsNotFound reports whether err indicates the container was not found,
// as opposed to some other runtime failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// RunSpec describes a container to launch.
type RunSpec struct {
	Name  string // deterministic container name, e.g. agent_job_<id[:8]>
	Image string
	Env   map[string]string
	// Mounts maps host path -> container path, read-write.
	Mounts map[string]string
	// MemoryLimitBytes and CPU{Period,Quota} bound container resources.
	MemoryLimitBytes int64
	CPUPeriod        int64
	CPUQuota         int64
}

// State is the coarse lifecycle state Inspect reports.
type State string

const (
	StateRunning State = "running"
	StateExited  State = "exited"
)

// InspectResult is what Inspect returns for a single round trip.
type InspectResult struct {
	State    State
	ExitCode int
	// Raw holds the runtime's own state name when it doesn't map onto
	// StateRunning/StateExited (spec.md §4.3.2: "pass through the
	// lowercase state name").
	Raw string
}

// ResourceSample is a one-shot, non-streaming sample sufficient for C8
// to compute CPU/memory/network/disk deltas and derive health.
type ResourceSample struct {
	ContainerID      string
	Name             string
	Status           string
	CPUTotalUsage    uint64
	CPUSystemUsage   uint64
	PreCPUTotalUsage uint64
	PreSystemUsage   uint64
	OnlineCPUs       int
	MemoryUsage      int64
	MemoryLimit      int64
	NetworkRxBytes   int64
	NetworkTxBytes   int64
	BlkioBytes       int64
	StartedAt        int64 // unix seconds
	RestartCount     int
}

// ContainerRuntime is the single interface the lifecycle manager and
// health supervisor depend on. DockerRuntime is the one implementation
// this repository ships; any other engine would satisfy the same
// contract.
type ContainerRuntime interface {
	Run(ctx context.Context, spec RunSpec) (handle string, err error)
	Inspect(ctx context.Context, handle string) (InspectResult, error)
	Stats(ctx context.Context, handle string) (ResourceSample, error)
	Logs(ctx context.Context, handle string, tail int) ([]byte, error)
	Remove(ctx context.Context, handle string, force bool) error
	List(ctx context.Context) ([]string, error)
}
