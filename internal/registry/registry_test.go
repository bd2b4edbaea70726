package registry

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/haroon0x/agent-orchestrator/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertGetUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")
	r := New(path)

	job := model.Job{JobID: "abc", Status: model.StatusRunning, Created: 1}
	require.NoError(t, r.Insert(job))

	got, ok := r.Get("abc")
	require.True(t, ok)
	assert.Equal(t, model.StatusRunning, got.Status)

	ok, err := r.Update("abc", func(j *model.Job) {
		j.Status = model.StatusComplete
		j.Completed = 2
	})
	require.NoError(t, err)
	require.True(t, ok)

	got, _ = r.Get("abc")
	assert.Equal(t, model.StatusComplete, got.Status)
	assert.EqualValues(t, 2, got.Completed)
}

func TestUpdateMissingJob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")
	r := New(path)
	ok, err := r.Update("nope", func(j *model.Job) {})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadRecoversSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")
	r := New(path)
	require.NoError(t, r.Insert(model.Job{JobID: "x", Status: model.StatusComplete}))

	recovered, err := Load(path)
	require.NoError(t, err)
	job, ok := recovered.Get("x")
	require.True(t, ok)
	assert.Equal(t, model.StatusComplete, job.Status)
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")
	r, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, r.Iter())
}

func TestConcurrentInsertsAreAllPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")
	r := New(path)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			_ = r.Insert(model.Job{JobID: id, Status: model.StatusRunning})
		}(i)
	}
	wg.Wait()

	assert.Len(t, r.Iter(), 20)

	recovered, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, recovered.Iter(), 20)
}
