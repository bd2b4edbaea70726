package health

import (
	"context"
	"testing"
	"time"

	"github.com/haroon0x/agent-orchestrator/internal/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuntime struct {
	handles    []string
	stats      map[string]runtime.ResourceSample
	inspect    map[string]runtime.InspectResult
	inspectErr map[string]error
}

func (f *fakeRuntime) Run(ctx context.Context, spec runtime.RunSpec) (string, error) {
	return "", nil
}
func (f *fakeRuntime) Inspect(ctx context.Context, handle string) (runtime.InspectResult, error) {
	if err, ok := f.inspectErr[handle]; ok {
		return runtime.InspectResult{}, err
	}
	if res, ok := f.inspect[handle]; ok {
		return res, nil
	}
	return runtime.InspectResult{State: runtime.StateRunning}, nil
}
func (f *fakeRuntime) Stats(ctx context.Context, handle string) (runtime.ResourceSample, error) {
	return f.stats[handle], nil
}
func (f *fakeRuntime) Logs(ctx context.Context, handle string, tail int) ([]byte, error) {
	return nil, nil
}
func (f *fakeRuntime) Remove(ctx context.Context, handle string, force bool) error { return nil }
func (f *fakeRuntime) List(ctx context.Context) ([]string, error) {
	return f.handles, nil
}

func TestSupervisorSampleOnceRecordsAgentContainersOnly(t *testing.T) {
	rt := &fakeRuntime{
		handles: []string{"c1", "c2"},
		stats: map[string]runtime.ResourceSample{
			"c1": {ContainerID: "c1", Name: "/agent_job_abcd1234", Status: "running", OnlineCPUs: 1, CPUSystemUsage: 100, MemoryLimit: 1000, MemoryUsage: 500},
			"c2": {ContainerID: "c2", Name: "/unrelated", Status: "running"},
		},
	}

	sup := NewSupervisor(rt, 30, 1, nil, 5)
	sup.sampleOnce(context.Background())

	sample, _, _ := sup.Latest()
	assert.Len(t, sample.Containers, 1)
	_, ok := sample.Containers["c1"]
	assert.True(t, ok)
}

func TestSupervisorSampleOnceTalliesAllContainersRegardlessOfAgentMarker(t *testing.T) {
	rt := &fakeRuntime{
		handles: []string{"c1", "c2", "c3"},
		stats: map[string]runtime.ResourceSample{
			"c1": {ContainerID: "c1", Name: "/agent_job_abcd1234", Status: "running"},
			"c2": {ContainerID: "c2", Name: "/unrelated", Status: "running"},
		},
		inspect: map[string]runtime.InspectResult{
			"c1": {State: runtime.StateRunning},
			"c2": {State: runtime.StateExited},
		},
		inspectErr: map[string]error{
			"c3": assert.AnError,
		},
	}

	sup := NewSupervisor(rt, 30, 1, nil, 5)
	sup.sampleOnce(context.Background())

	sample, _, _ := sup.Latest()
	assert.Equal(t, 1, sample.System.ActiveContainers)
	assert.Equal(t, 2, sample.System.FailedContainers)
}

func TestSupervisorStartStopIdempotent(t *testing.T) {
	rt := &fakeRuntime{}
	sup := NewSupervisor(rt, 1, 1, nil, 5)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sup.Start(ctx)
	sup.Start(ctx) // second call is a no-op, must not deadlock or double-run

	require.Eventually(t, func() bool {
		_, status, _ := sup.Latest()
		return status != ""
	}, time.Second, 10*time.Millisecond)

	sup.Stop()
	sup.Stop() // idempotent
}
