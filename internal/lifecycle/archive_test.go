package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/haroon0x/agent-orchestrator/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOutputOnlyForCompleteJobs(t *testing.T) {
	rt := &fakeRuntime{}
	m, _ := newTestManager(t, rt)

	jobID, err := m.LaunchJob(context.Background(), "echo hi")
	require.NoError(t, err)

	_, ok := m.GetOutput(jobID)
	assert.False(t, ok, "archive must not be available before completion")
}

func TestGetOutputIdempotentContent(t *testing.T) {
	rt := &fakeRuntime{}
	m, _ := newTestManager(t, rt)

	jobID, err := m.LaunchJob(context.Background(), "echo hi")
	require.NoError(t, err)

	job, _ := m.reg.Get(jobID)
	require.NoError(t, os.WriteFile(filepath.Join(job.OutputPath, "result.json"), []byte(`{"status":"completed"}`), 0o644))

	_, updErr := m.reg.Update(jobID, func(j *model.Job) { j.Status = model.StatusComplete })
	require.NoError(t, updErr)

	path1, ok := m.GetOutput(jobID)
	require.True(t, ok)
	content1, err := os.ReadFile(path1)
	require.NoError(t, err)

	path2, ok := m.GetOutput(jobID)
	require.True(t, ok)
	content2, err := os.ReadFile(path2)
	require.NoError(t, err)

	assert.Equal(t, path1, path2)
	assert.Equal(t, content1, content2)
}

func TestCleanupRemovesExpiredDirectories(t *testing.T) {
	rt := &fakeRuntime{}
	m, _ := newTestManager(t, rt)

	jobID, err := m.LaunchJob(context.Background(), "echo hi")
	require.NoError(t, err)

	job, _ := m.reg.Get(jobID)
	_, updErr := m.reg.Update(jobID, func(j *model.Job) { j.Status = model.StatusComplete })
	require.NoError(t, updErr)

	oldTime := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(job.OutputPath, oldTime, oldTime))

	m.Cleanup(context.Background())

	_, err = os.Stat(job.OutputPath)
	assert.True(t, os.IsNotExist(err))

	_, ok := m.reg.Get(jobID)
	assert.False(t, ok)
}
