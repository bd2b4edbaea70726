// Package dockermgr is a thin facade over C2's ContainerRuntime,
// grounded on the original's DockerManager.py: a simpler helper used by
// CLI tooling alongside the fuller job_manager.py lifecycle logic.
package dockermgr

import (
	"context"
	"fmt"

	"github.com/haroon0x/agent-orchestrator/internal/health"
	"github.com/haroon0x/agent-orchestrator/internal/runtime"
)

// Manager is the CLI-facing convenience wrapper used by the cleanup and
// status commands.
type Manager struct {
	rt runtime.ContainerRuntime
}

// New constructs a Manager over a ContainerRuntime.
func New(rt runtime.ContainerRuntime) *Manager {
	return &Manager{rt: rt}
}

// List returns every agent-managed container's resource sample, filtered
// to containers carrying this system's name marker.
func (m *Manager) List(ctx context.Context) ([]runtime.ResourceSample, error) {
	handles, err := m.rt.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}

	var samples []runtime.ResourceSample
	for _, handle := range handles {
		rs, err := m.rt.Stats(ctx, handle)
		if err != nil {
			continue
		}
		if !health.IsAgentContainer(rs.Name) {
			continue
		}
		samples = append(samples, rs)
	}
	return samples, nil
}

// Get inspects a single container by handle.
func (m *Manager) Get(ctx context.Context, handle string) (runtime.InspectResult, error) {
	return m.rt.Inspect(ctx, handle)
}

// Stop force-removes a single container by handle.
func (m *Manager) Stop(ctx context.Context, handle string) error {
	return m.rt.Remove(ctx, handle, true)
}
