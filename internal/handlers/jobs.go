package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/haroon0x/agent-orchestrator/internal/metrics"
	"github.com/haroon0x/agent-orchestrator/internal/model"
)

// JobLauncher is the subset of the lifecycle manager the HTTP layer
// depends on, kept as an interface so handlers can be tested against a
// fake without a real container runtime.
type JobLauncher interface {
	LaunchJob(ctx context.Context, prompt string) (string, error)
	GetStatus(ctx context.Context, jobID string) (model.Status, error)
	CancelJob(ctx context.Context, jobID string) bool
	GetOutput(jobID string) (string, bool)
	GetLogFile(jobID, kind string) (string, bool)
	GetFullLog(jobID, kind string) (string, bool)
}

// JobRegistry is the read-only subset of the registry the HTTP layer needs.
type JobRegistry interface {
	Get(jobID string) (model.Job, bool)
	Iter() []model.Job
}

// JobHandler implements C4's job-facing endpoints.
type JobHandler struct {
	mgr JobLauncher
	reg JobRegistry
}

// NewJobHandler constructs a JobHandler.
func NewJobHandler(mgr JobLauncher, reg JobRegistry) *JobHandler {
	return &JobHandler{mgr: mgr, reg: reg}
}

type scheduleRequest struct {
	Prompt string `json:"prompt"`
}

// Schedule handles POST /schedule.
func (h *JobHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	jobID, err := h.mgr.LaunchJob(r.Context(), req.Prompt)
	if err != nil {
		metrics.RecordJobLaunch("error")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.RecordJobLaunch("scheduled")

	writeJSON(w, http.StatusOK, map[string]string{
		"job_id": jobID,
		"status": "scheduled",
	})
}

// Status handles GET /status/{id}.
func (h *JobHandler) Status(w http.ResponseWriter, r *http.Request, jobID string) {
	status, err := h.mgr.GetStatus(r.Context(), jobID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if status == model.StatusNotFound {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}

	resp := map[string]any{
		"job_id":       jobID,
		"status":       status,
		"output":       nil,
		"download_link": nil,
		"logs_link":    fmt.Sprintf("/logs/%s", jobID),
	}
	if path, ok := h.mgr.GetOutput(jobID); ok {
		resp["output"] = path
		resp["download_link"] = fmt.Sprintf("/download/%s", jobID)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Cancel handles POST /cancel/{id}.
func (h *JobHandler) Cancel(w http.ResponseWriter, r *http.Request, jobID string) {
	if _, ok := h.reg.Get(jobID); !ok {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}
	cancelled := h.mgr.CancelJob(r.Context(), jobID)
	if cancelled {
		metrics.RecordCancellation("cancelled")
	} else {
		metrics.RecordCancellation("failed")
	}

	status, _ := h.mgr.GetStatus(r.Context(), jobID)
	writeJSON(w, http.StatusOK, map[string]any{
		"job_id":    jobID,
		"cancelled": cancelled,
		"status":    status,
	})
}

type jobSummary struct {
	JobID     string       `json:"job_id"`
	Status    model.Status `json:"status"`
	Created   int64        `json:"created"`
	Started   int64        `json:"started,omitempty"`
	Completed int64        `json:"completed,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// ListJobs handles GET /jobs.
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := h.reg.Iter()
	summaries := make([]jobSummary, 0, len(jobs))
	for _, j := range jobs {
		summaries = append(summaries, jobSummary{
			JobID: j.JobID, Status: j.Status, Created: j.Created,
			Started: j.Started, Completed: j.Completed, Error: j.Error,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": summaries})
}

// GetJob handles GET /job/{id}.
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, ok := h.reg.Get(jobID)
	if !ok {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// GetLogsSummary handles GET /logs/{id}?log_type=stdout|stderr.
func (h *JobHandler) GetLogsSummary(w http.ResponseWriter, r *http.Request, jobID string) {
	if _, ok := h.reg.Get(jobID); !ok {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}

	logType := r.URL.Query().Get("log_type")
	if logType == "" {
		logType = "stdout"
	}
	if logType != "stdout" && logType != "stderr" {
		writeError(w, http.StatusBadRequest, "log_type must be stdout or stderr")
		return
	}

	full, ok := h.mgr.GetFullLog(jobID, logType)
	if !ok {
		full = ""
	}
	lines := strings.Split(full, "\n")
	last1000 := lines
	if len(lines) > 1000 {
		last1000 = lines[len(lines)-1000:]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"job_id":         jobID,
		"log_type":       logType,
		"last_1000_lines": strings.Join(last1000, "\n"),
		"full_log":       full,
	})
}

// GetLogFileDownload handles GET /logs/{id}/{kind}, a plain-text log download.
func (h *JobHandler) GetLogFileDownload(w http.ResponseWriter, r *http.Request, jobID, kind string) {
	if kind != "stdout" && kind != "stderr" {
		writeError(w, http.StatusBadRequest, "log kind must be stdout or stderr")
		return
	}
	path, ok := h.mgr.GetLogFile(jobID, kind)
	if !ok {
		writeError(w, http.StatusNotFound, "Log file not found")
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	http.ServeFile(w, r, path)
}

// Download handles GET /download/{id}.
func (h *JobHandler) Download(w http.ResponseWriter, r *http.Request, jobID string) {
	path, ok := h.mgr.GetOutput(jobID)
	if !ok {
		writeError(w, http.StatusNotFound, "Output archive not available")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	http.ServeFile(w, r, path)
}

// Root handles GET /.
func Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "orchestration server is running."})
}
