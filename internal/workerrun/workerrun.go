// Package workerrun is C7: the in-container entrypoint that turns a
// prompt into a result manifest by driving C5 (analyzer) then C6
// (executor), grounded on nodes.py's flow wiring and spec.md §4.7's
// output-directory detection rules.
package workerrun

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/catalystcommunity/app-utils-go/logging"
	"github.com/haroon0x/agent-orchestrator/internal/analyzer"
	"github.com/haroon0x/agent-orchestrator/internal/executor"
	"github.com/haroon0x/agent-orchestrator/internal/jsonutil"
	"github.com/haroon0x/agent-orchestrator/internal/model"
)

// DetectOutputDir picks the output directory per spec.md §4.7: prefer
// /workspace/output/<jobID> when running inside a container, else
// ./output/<jobID> under the current working directory. An explicit
// override takes precedence over detection.
func DetectOutputDir(jobID, override string) string {
	if override != "" {
		return filepath.Join(override, jobID)
	}
	if inContainer() {
		return filepath.Join("/workspace/output", jobID)
	}
	return filepath.Join("output", jobID)
}

// inContainer mirrors the three independent signals spec.md §4.7
// names: any one of them is sufficient.
func inContainer() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	if os.Getenv("CONTAINER_ENV") == "true" {
		return true
	}
	if data, err := os.ReadFile("/proc/1/cgroup"); err == nil {
		if containsDocker(data) {
			return true
		}
	}
	return false
}

func containsDocker(data []byte) bool {
	for _, marker := range [][]byte{[]byte("docker"), []byte("containerd")} {
		if indexOf(data, marker) >= 0 {
			return true
		}
	}
	return false
}

func indexOf(haystack, needle []byte) int {
	n, m := len(haystack), len(needle)
	if m == 0 || m > n {
		return -1
	}
	for i := 0; i+m <= n; i++ {
		if string(haystack[i:i+m]) == string(needle) {
			return i
		}
	}
	return -1
}

// Run is the full per-invocation flow: build the plan, set up and
// chdir into the workspace, run the pipeline, compile and persist the
// manifest, restore the original working directory. On any uncaught
// error it still returns a failure manifest — it never panics outward.
func Run(ctx context.Context, client analyzer.ModelClient, jobID, prompt, outputDir, osName string) (manifest model.ResultManifest) {
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker run panicked: %v", r)
		}
		if err != nil {
			logging.Log.WithError(err).WithField("job_id", jobID).Error("worker run failed, writing failure manifest")
			manifest = model.ResultManifest{
				Task:      prompt,
				JobID:     jobID,
				OutputDir: outputDir,
				Status:    model.ManifestStatusFailed,
				Error:     err.Error(),
			}
			_ = jsonutil.SaveJSON(manifest, filepath.Join(outputDir, "result.json"))
		}
	}()
	manifest, err = run(ctx, client, jobID, prompt, outputDir, osName)
	return manifest
}

func run(ctx context.Context, client analyzer.ModelClient, jobID, prompt, outputDir, osName string) (model.ResultManifest, error) {
	workspaceDir := filepath.Join(outputDir, "workspace")
	if err := os.MkdirAll(workspaceDir, 0o755); err != nil {
		workspaceDir = outputDir
		if err := os.MkdirAll(workspaceDir, 0o755); err != nil {
			return model.ResultManifest{}, err
		}
	}

	originalWD, err := os.Getwd()
	if err != nil {
		return model.ResultManifest{}, err
	}
	if err := os.Chdir(workspaceDir); err != nil {
		workspaceDir = outputDir
	} else {
		defer os.Chdir(originalWD)
	}

	a := analyzer.New(client, osName)
	plan := a.Analyze(ctx, prompt)

	manifest := executor.Run(workspaceDir, plan, prompt, jobID, outputDir)

	if err := executor.WriteManifest(manifest, outputDir); err != nil {
		return manifest, err
	}

	return manifest, nil
}
