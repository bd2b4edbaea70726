// Package lifecycle implements C3: launching jobs as containers, status
// reconciliation, cancellation, output packaging, and retention GC.
package lifecycle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/catalystcommunity/app-utils-go/logging"
	"github.com/gammazero/workerpool"
	"github.com/google/uuid"
	"github.com/haroon0x/agent-orchestrator/internal/metrics"
	"github.com/haroon0x/agent-orchestrator/internal/model"
	"github.com/haroon0x/agent-orchestrator/internal/registry"
	"github.com/haroon0x/agent-orchestrator/internal/runtime"
)

// Manager is C3. It owns no mutex of its own; all record mutation goes
// through the registry, and the runtime is never called while the
// registry's lock is held (spec.md §4.3.7).
type Manager struct {
	reg           *registry.Registry
	rt            runtime.ContainerRuntime
	outputRoot    string
	image         string
	retentionDays int
}

// New constructs a Manager. outputRoot is AGENT_OUTPUT_DIR.
func New(reg *registry.Registry, rt runtime.ContainerRuntime, outputRoot, image string, retentionDays int) *Manager {
	return &Manager{
		reg:           reg,
		rt:            rt,
		outputRoot:    outputRoot,
		image:         image,
		retentionDays: retentionDays,
	}
}

// LaunchJob implements spec.md §4.3.1.
func (m *Manager) LaunchJob(ctx context.Context, prompt string) (string, error) {
	jobID := uuid.NewString()
	outputPath := filepath.Join(m.outputRoot, jobID)
	logsPath := filepath.Join(outputPath, "logs")

	if err := os.MkdirAll(logsPath, 0o755); err != nil {
		return "", fmt.Errorf("creating output directories for job %s: %w", jobID, err)
	}
	if err := os.MkdirAll(filepath.Join(outputPath, "workspace"), 0o755); err != nil {
		return "", fmt.Errorf("creating workspace directory for job %s: %w", jobID, err)
	}

	now := time.Now().Unix()

	spec := runtime.RunSpec{
		Name:  containerName(jobID),
		Image: m.image,
		Env: map[string]string{
			"JOB_PROMPT":       prompt,
			"JOB_ID":           jobID,
			"CONTAINER_ENV":    "true",
			"AGENT_OUTPUT_DIR": "/workspace/output",
		},
		Mounts: map[string]string{
			outputPath: "/workspace/output/" + jobID,
		},
		MemoryLimitBytes: 2 * 1024 * 1024 * 1024,
		CPUPeriod:        100000,
		CPUQuota:         50000,
	}

	handle, err := m.rt.Run(ctx, spec)

	job := model.Job{
		JobID:      jobID,
		Prompt:     prompt,
		OutputPath: outputPath,
		LogsPath:   logsPath,
		Created:    now,
		Started:    now,
	}

	if err != nil {
		logging.Log.WithError(err).WithField("job_id", jobID).Error("failed to launch job container")
		job.Status = model.StatusError
		job.Error = err.Error()
	} else {
		job.Status = model.StatusRunning
		job.ContainerID = handle
	}

	if insertErr := m.reg.Insert(job); insertErr != nil {
		logging.Log.WithError(insertErr).WithField("job_id", jobID).Error("failed to persist new job record")
	}

	// Launch failures never propagate to the HTTP layer beyond being recorded.
	return jobID, nil
}

// GetStatus implements spec.md §4.3.2.
func (m *Manager) GetStatus(ctx context.Context, jobID string) (model.Status, error) {
	job, ok := m.reg.Get(jobID)
	if !ok {
		return model.StatusNotFound, nil
	}
	if job.Status.Terminal() {
		return job.Status, nil
	}
	if job.ContainerID == "" {
		return job.Status, nil
	}

	result, err := m.rt.Inspect(ctx, job.ContainerID)

	now := time.Now().Unix()
	var newStatus model.Status

	switch {
	case err != nil && runtime.IsNotFound(err):
		newStatus = model.StatusNotFound
	case err != nil:
		newStatus = model.StatusError
	case result.State == runtime.StateExited:
		newStatus = model.StatusComplete
	case result.State == runtime.StateRunning:
		newStatus = model.StatusRunning
	default:
		newStatus = model.Status(result.Raw)
	}

	_, updateErr := m.reg.Update(jobID, func(j *model.Job) {
		j.Status = newStatus
		switch {
		case err != nil && runtime.IsNotFound(err):
			j.Error = "Container not found."
		case err != nil:
			j.Error = err.Error()
		case result.State == runtime.StateExited:
			if j.Completed == 0 {
				j.Completed = now
			}
			ec := result.ExitCode
			j.ExitCode = &ec
		}
	})
	if updateErr != nil {
		logging.Log.WithError(updateErr).WithField("job_id", jobID).Error("failed to persist status update")
	}
	if newStatus.Terminal() {
		metrics.RecordJobTerminal(string(newStatus))
	}

	return newStatus, nil
}

// CancelJob implements spec.md §4.3.3.
func (m *Manager) CancelJob(ctx context.Context, jobID string) bool {
	job, ok := m.reg.Get(jobID)
	if !ok || job.ContainerID == "" {
		return false
	}

	if err := m.rt.Remove(ctx, job.ContainerID, true); err != nil {
		logging.Log.WithError(err).WithField("job_id", jobID).Warn("failed to remove container on cancel")
		return false
	}

	now := time.Now().Unix()
	ok, err := m.reg.Update(jobID, func(j *model.Job) {
		j.Status = model.StatusCancelled
		j.Cancelled = now
	})
	if err != nil {
		logging.Log.WithError(err).WithField("job_id", jobID).Error("failed to persist cancellation")
	}
	return ok
}

func containerName(jobID string) string {
	id := jobID
	if len(id) > 8 {
		id = id[:8]
	}
	return "agent_job_" + id
}
