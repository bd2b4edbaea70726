package executor

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/haroon0x/agent-orchestrator/internal/config"
	"github.com/haroon0x/agent-orchestrator/internal/model"
)

// RunScriptedCode consumes every python_code action, materializing each
// one to a temp file and running it under a hard wall-clock timeout,
// grounded on nodes.py's PythonCodeNode (which does the same via
// tempfile.NamedTemporaryFile + subprocess.run(timeout=...)).
func RunScriptedCode(c *ExecContext) {
	actions := c.takeByType(model.ActionPythonCode)

	for _, a := range actions {
		c.PythonResults = append(c.PythonResults, runOneScript(c.WorkspaceDir, a))
	}
}

func runOneScript(workspaceDir string, a model.Action) model.ActionResult {
	result := model.ActionResult{Command: a.Command}

	f, err := os.CreateTemp(workspaceDir, "script-*.py")
	if err != nil {
		result.Error = err.Error()
		return result
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(a.Command); err != nil {
		f.Close()
		result.Error = err.Error()
		return result
	}
	if err := f.Close(); err != nil {
		result.Error = err.Error()
		return result
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(config.ScriptTimeoutSeconds)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "python3", path)
	cmd.Dir = workspaceDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		result.Error = "Execution timed out"
		return result
	}

	result.Output = stdout.String()
	if stderr.Len() > 0 {
		if result.Output != "" {
			result.Output += "\n"
		}
		result.Output += stderr.String()
	}

	if cmd.ProcessState != nil {
		code := cmd.ProcessState.ExitCode()
		result.ReturnCode = &code
		result.Success = code == 0
	}

	if runErr != nil && result.ReturnCode == nil {
		result.Error = runErr.Error()
	} else if !result.Success && result.Error == "" {
		result.Error = "script exited with non-zero status"
	}

	return result
}
