// Package registry implements C1: an in-memory map of jobs guarded by a
// single mutex, snapshotted atomically to disk after every mutation.
package registry

import (
	"fmt"
	"os"
	"sync"

	"github.com/catalystcommunity/app-utils-go/logging"
	"github.com/haroon0x/agent-orchestrator/internal/jsonutil"
	"github.com/haroon0x/agent-orchestrator/internal/model"
)

// Registry is the job registry described in spec.md §4.1. Zero value is
// not usable; construct with New or Load.
type Registry struct {
	mu       sync.Mutex
	jobs     map[string]model.Job
	snapshot string // path to jobs.json

	// writeMu serializes snapshot writes so the last file renamed into
	// place always holds the latest state.
	writeMu sync.Mutex
}

// New creates an empty registry that snapshots to snapshotPath.
func New(snapshotPath string) *Registry {
	return &Registry{
		jobs:     make(map[string]model.Job),
		snapshot: snapshotPath,
	}
}

// Load recovers a registry from snapshotPath. A missing file yields an
// empty registry; a malformed file is fatal, per spec.md §4.1 ("do not
// silently drop state").
func Load(snapshotPath string) (*Registry, error) {
	r := New(snapshotPath)

	if _, err := os.Stat(snapshotPath); os.IsNotExist(err) {
		logging.Log.WithField("path", snapshotPath).Info("no existing job registry snapshot, starting empty")
		return r, nil
	}

	var jobs map[string]model.Job
	if err := jsonutil.LoadJSON(snapshotPath, &jobs); err != nil {
		return nil, fmt.Errorf("loading job registry snapshot %s: %w", snapshotPath, err)
	}
	r.jobs = jobs
	logging.Log.WithField("count", len(jobs)).Info("recovered job registry from snapshot")
	return r, nil
}

// Insert adds a new job record and persists the snapshot.
func (r *Registry) Insert(job model.Job) error {
	r.mu.Lock()
	r.jobs[job.JobID] = job
	r.mu.Unlock()
	return r.writeSnapshot()
}

// Update applies fn to the current record for jobID under the lock and
// persists the result. Returns false if no such job exists.
func (r *Registry) Update(jobID string, fn func(*model.Job)) (bool, error) {
	r.mu.Lock()
	job, ok := r.jobs[jobID]
	if !ok {
		r.mu.Unlock()
		return false, nil
	}
	fn(&job)
	r.jobs[jobID] = job
	r.mu.Unlock()

	if err := r.writeSnapshot(); err != nil {
		return true, err
	}
	return true, nil
}

// Get returns a copy of the record for jobID, or false if it doesn't exist.
func (r *Registry) Get(jobID string) (model.Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	return job.Clone(), ok
}

// Iter returns a snapshot slice of every job currently registered.
func (r *Registry) Iter() []model.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j.Clone())
	}
	return out
}

// Remove deletes jobID from the registry and persists the snapshot.
func (r *Registry) Remove(jobID string) error {
	r.mu.Lock()
	delete(r.jobs, jobID)
	r.mu.Unlock()
	return r.writeSnapshot()
}

// snapshotLocked must be called while holding r.mu; it copies the map
// so the actual disk write below happens outside the lock.
func (r *Registry) snapshotLocked() map[string]model.Job {
	snap := make(map[string]model.Job, len(r.jobs))
	for k, v := range r.jobs {
		snap[k] = v
	}
	return snap
}

func (r *Registry) writeSnapshot() error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	r.mu.Lock()
	snap := r.snapshotLocked()
	r.mu.Unlock()

	if err := jsonutil.SaveJSON(snap, r.snapshot); err != nil {
		return fmt.Errorf("persisting job registry: %w", err)
	}
	return nil
}
