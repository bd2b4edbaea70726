package executor

import (
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/haroon0x/agent-orchestrator/internal/jsonutil"
	"github.com/haroon0x/agent-orchestrator/internal/model"
)

// Run drives the fixed pipeline — file operations, then shell
// commands, then scripted code — and compiles the result manifest,
// grounded on nodes.py's flow: FileOperationNode >> ShellCommandNode >>
// PythonCodeNode >> ResultCompilationNode.
//
// task/jobID/outputDir are carried through only for the manifest; they
// don't affect execution.
func Run(workspaceDir string, plan model.ActionPlan, task, jobID, outputDir string) model.ResultManifest {
	c := NewExecContext(workspaceDir, plan.Actions)

	RunFileOperations(c)
	RunShellCommands(c)
	RunScriptedCode(c)

	executed := len(c.FileResults) + len(c.ShellResults) + len(c.PythonResults)

	manifest := model.ResultManifest{
		Task:             task,
		JobID:            jobID,
		Analysis:         plan,
		ShellResults:     c.ShellResults,
		PythonResults:    c.PythonResults,
		FileResults:      c.FileResults,
		CreatedFiles:     snapshotWorkspace(workspaceDir),
		ExecutedActions:  executed,
		RemainingActions: c.Actions,
		WorkspaceDir:     workspaceDir,
		OutputDir:        outputDir,
	}

	if len(c.Actions) == 0 {
		manifest.Status = model.ManifestStatusCompleted
	} else {
		manifest.Status = model.ManifestStatusPartial
	}

	return manifest
}

// WriteManifest persists the manifest at <outputDir>/result.json.
func WriteManifest(manifest model.ResultManifest, outputDir string) error {
	return jsonutil.SaveJSON(manifest, filepath.Join(outputDir, "result.json"))
}

// snapshotWorkspace walks the workspace directory and records each
// regular file's relative path, size, and content (UTF-8 only; binary
// or unreadable files are recorded size-only with an error note).
func snapshotWorkspace(workspaceDir string) []model.CreatedFile {
	var files []model.CreatedFile

	var walk func(dir, rel string)
	walk = func(dir, rel string) {
		ents, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, e := range ents {
			relPath := e.Name()
			if rel != "" {
				relPath = filepath.Join(rel, e.Name())
			}
			full := filepath.Join(dir, e.Name())
			if e.IsDir() {
				walk(full, relPath)
				continue
			}
			files = append(files, snapshotFile(full, relPath))
		}
	}
	walk(workspaceDir, "")

	return files
}

func snapshotFile(full, relPath string) model.CreatedFile {
	info, err := os.Stat(full)
	if err != nil {
		return model.CreatedFile{Filename: relPath, Error: err.Error()}
	}

	cf := model.CreatedFile{Filename: relPath, Size: info.Size()}

	data, err := os.ReadFile(full)
	if err != nil {
		cf.Error = err.Error()
		return cf
	}
	if !utf8.Valid(data) {
		cf.Error = "binary content omitted"
		return cf
	}
	cf.Content = string(data)
	return cf
}
