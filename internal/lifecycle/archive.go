package lifecycle

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/catalystcommunity/app-utils-go/logging"
	"github.com/gammazero/workerpool"
	"github.com/haroon0x/agent-orchestrator/internal/model"
)

// GetOutput implements spec.md §4.3.4: returns the archive path for a
// completed job, building it lazily and idempotently on first ask.
func (m *Manager) GetOutput(jobID string) (string, bool) {
	job, ok := m.reg.Get(jobID)
	if !ok || job.Status != model.StatusComplete {
		return "", false
	}

	archivePath := filepath.Join(job.OutputPath, "output.zip")
	if _, err := os.Stat(archivePath); err == nil {
		return archivePath, true
	}

	if err := buildArchive(job.OutputPath, archivePath); err != nil {
		logging.Log.WithError(err).WithField("job_id", jobID).Error("failed to build output archive")
		return "", false
	}
	return archivePath, true
}

// buildArchive recursively zips dir into archivePath, skipping the
// archive file itself if it already exists from a concurrent build.
func buildArchive(dir, archivePath string) error {
	tmpPath := archivePath + ".building"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating archive temp file: %w", err)
	}

	zw := zip.NewWriter(f)
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == archivePath || path == tmpPath {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		header, err := zip.FileInfoHeader(mustInfo(d))
		if err != nil {
			return err
		}
		header.Name = rel
		header.Method = zip.Deflate

		w, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		_, err = io.Copy(w, src)
		return err
	})

	closeErr := zw.Close()
	f.Close()

	if walkErr != nil || closeErr != nil {
		os.Remove(tmpPath)
		if walkErr != nil {
			return walkErr
		}
		return closeErr
	}

	return os.Rename(tmpPath, archivePath)
}

func mustInfo(d fs.DirEntry) fs.FileInfo {
	info, err := d.Info()
	if err != nil {
		return nil
	}
	return info
}

// GetLogFile implements spec.md §4.3.5: the path to <logs_path>/<kind>.log.
func (m *Manager) GetLogFile(jobID, kind string) (string, bool) {
	job, ok := m.reg.Get(jobID)
	if !ok {
		return "", false
	}
	path := filepath.Join(job.LogsPath, kind+".log")
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// GetFullLog returns the full contents of <logs_path>/<kind>.log.
func (m *Manager) GetFullLog(jobID, kind string) (string, bool) {
	path, ok := m.GetLogFile(jobID, kind)
	if !ok {
		return "", false
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(raw), true
}

// Cleanup implements spec.md §4.3.6, the retention GC. It fans out the
// best-effort container removals across a small worker pool, mirroring
// the teacher's initStores fan-out in cmd/api.go.
func (m *Manager) Cleanup(ctx context.Context) {
	jobs := m.reg.Iter()
	retentionCutoff := time.Duration(m.retentionDays) * 24 * time.Hour

	pool := workerpool.New(4)
	for _, job := range jobs {
		job := job
		pool.Submit(func() {
			if job.Status.Terminal() && job.ContainerID != "" {
				if err := m.rt.Remove(ctx, job.ContainerID, true); err != nil {
					logging.Log.WithError(err).WithField("job_id", job.JobID).Debug("best-effort container removal failed during cleanup")
				}
			}

			info, err := os.Stat(job.OutputPath)
			if err != nil {
				return
			}
			if time.Since(info.ModTime()) > retentionCutoff {
				if err := os.RemoveAll(job.OutputPath); err != nil {
					logging.Log.WithError(err).WithField("job_id", job.JobID).Warn("failed to remove expired output directory")
					return
				}
				if err := m.reg.Remove(job.JobID); err != nil {
					logging.Log.WithError(err).WithField("job_id", job.JobID).Error("failed to remove expired job record")
				}
			}
		})
	}
	pool.StopWait()
}
