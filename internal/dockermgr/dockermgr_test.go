package dockermgr

import (
	"context"
	"testing"

	"github.com/haroon0x/agent-orchestrator/internal/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuntime struct {
	handles    []string
	stats      map[string]runtime.ResourceSample
	removed    []string
	removeErr  error
	inspectRes runtime.InspectResult
}

func (f *fakeRuntime) Run(ctx context.Context, spec runtime.RunSpec) (string, error) { return "", nil }
func (f *fakeRuntime) Inspect(ctx context.Context, handle string) (runtime.InspectResult, error) {
	return f.inspectRes, nil
}
func (f *fakeRuntime) Stats(ctx context.Context, handle string) (runtime.ResourceSample, error) {
	return f.stats[handle], nil
}
func (f *fakeRuntime) Logs(ctx context.Context, handle string, tail int) ([]byte, error) {
	return nil, nil
}
func (f *fakeRuntime) Remove(ctx context.Context, handle string, force bool) error {
	f.removed = append(f.removed, handle)
	return f.removeErr
}
func (f *fakeRuntime) List(ctx context.Context) ([]string, error) {
	return f.handles, nil
}

func TestListFiltersToAgentContainers(t *testing.T) {
	rt := &fakeRuntime{
		handles: []string{"c1", "c2"},
		stats: map[string]runtime.ResourceSample{
			"c1": {ContainerID: "c1", Name: "/agent_job_abcd1234"},
			"c2": {ContainerID: "c2", Name: "/unrelated"},
		},
	}
	mgr := New(rt)

	samples, err := mgr.List(context.Background())
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "c1", samples[0].ContainerID)
}

func TestStopDelegatesToRuntimeRemove(t *testing.T) {
	rt := &fakeRuntime{}
	mgr := New(rt)

	require.NoError(t, mgr.Stop(context.Background(), "c1"))
	assert.Equal(t, []string{"c1"}, rt.removed)
}
