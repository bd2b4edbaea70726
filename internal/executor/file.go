package executor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/haroon0x/agent-orchestrator/internal/model"
)

// RunFileOperations consumes every file_operation action, grounded on
// nodes.py's FileOperationNode. I/O errors are captured as failure
// results; they never abort the pipeline.
func RunFileOperations(c *ExecContext) {
	actions := c.takeByType(model.ActionFileOperation)

	for _, a := range actions {
		result := runOneFileOperation(c, a)
		c.FileResults = append(c.FileResults, result)
		if result.Success && result.Operation != model.FileOpCreateDirectory {
			c.WrittenFiles = append(c.WrittenFiles, a.Filename)
		}
	}
}

func runOneFileOperation(c *ExecContext, a model.Action) model.ActionResult {
	operation := a.Operation
	if operation == "" {
		operation = model.FileOpWrite
	}

	result := model.ActionResult{
		Filename:  a.Filename,
		Operation: operation,
	}

	path := a.Filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.WorkspaceDir, path)
	}

	switch operation {
	case model.FileOpWrite:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			result.Error = err.Error()
			return result
		}
		if err := os.WriteFile(path, []byte(a.Command), 0o644); err != nil {
			result.Error = err.Error()
			return result
		}
		result.Success = true
		result.Output = fmt.Sprintf("%d bytes written", len(a.Command))

	case model.FileOpAppend:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			result.Error = err.Error()
			return result
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			result.Error = err.Error()
			return result
		}
		defer f.Close()
		if _, err := f.WriteString(a.Command); err != nil {
			result.Error = err.Error()
			return result
		}
		result.Success = true
		result.Output = fmt.Sprintf("%d bytes appended", len(a.Command))

	case model.FileOpCreateDirectory:
		if err := os.MkdirAll(path, 0o755); err != nil {
			result.Error = err.Error()
			return result
		}
		result.Success = true
		result.Output = "directory created"

	default:
		result.Error = fmt.Sprintf("unknown file operation: %s", operation)
	}

	return result
}
