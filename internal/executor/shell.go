package executor

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/haroon0x/agent-orchestrator/internal/config"
	"github.com/haroon0x/agent-orchestrator/internal/model"
)

// linuxOnlyCommands mirrors nodes.py's ShellCommandNode OS guard: since
// the worker's host OS is reported to the model as a fixed assumption
// (spec.md §4.5) rather than detected, a narrow set of filesystem
// commands are still worth guarding against running somewhere that
// doesn't actually have them. A command from this set is skipped rather
// than executed blind when the utility is not found on the host's PATH.
var linuxOnlyCommands = map[string]bool{
	"ls": true, "pwd": true, "cat": true, "touch": true,
	"rm": true, "mv": true, "cp": true,
}

// RunShellCommands consumes every shell_command action. Each command
// that references a file the file sub-executor just wrote is delayed
// briefly to let that write land before the command runs.
func RunShellCommands(c *ExecContext) {
	actions := c.takeByType(model.ActionShellCommand)

	for _, a := range actions {
		if referencesWrittenFile(a.Command, c.WrittenFiles) {
			if !waitForFileVisibility(c.WorkspaceDir, a.Command, c.WrittenFiles) {
				c.ShellResults = append(c.ShellResults, model.ActionResult{
					Command: a.Command,
					Error:   "referenced file not found before execution",
				})
				continue
			}
		}
		c.ShellResults = append(c.ShellResults, runOneShellCommand(c.WorkspaceDir, a))
	}
}

func runOneShellCommand(workspaceDir string, a model.Action) model.ActionResult {
	result := model.ActionResult{Command: a.Command}

	fields := strings.Fields(a.Command)
	if len(fields) > 0 && linuxOnlyCommands[fields[0]] {
		if _, err := exec.LookPath(fields[0]); err != nil {
			result.Error = fields[0] + " is Linux-only and was skipped"
			return result
		}
	}

	cmd := exec.Command("sh", "-c", a.Command)
	cmd.Dir = workspaceDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	code := cmd.ProcessState.ExitCode()
	result.ReturnCode = &code
	result.Output = stdout.String()
	if stderr.Len() > 0 {
		if result.Output != "" {
			result.Output += "\n"
		}
		result.Output += stderr.String()
	}

	if err != nil && code == 0 {
		result.Error = err.Error()
		return result
	}
	result.Success = code == 0
	if !result.Success && result.Error == "" {
		result.Error = "command exited with non-zero status"
	}
	return result
}

// referencesWrittenFile reports whether command mentions, by basename,
// any file the file sub-executor has written so far.
func referencesWrittenFile(command string, writtenFiles []string) bool {
	lowerCmd := strings.ToLower(command)
	for _, f := range writtenFiles {
		base := strings.ToLower(filepath.Base(f))
		if strings.Contains(lowerCmd, base) {
			return true
		}
	}
	return false
}

// waitForFileVisibility polls briefly for the referenced file to exist
// on disk before the shell command runs, bounded by
// config.FileReferencePollAttempts/FileReferencePollInterval. Reports
// whether the file became visible; the caller must skip execution when
// it returns false (spec.md §4.6.2).
func waitForFileVisibility(workspaceDir, command string, writtenFiles []string) bool {
	var candidate string
	lowerCmd := strings.ToLower(command)
	for _, f := range writtenFiles {
		if strings.Contains(lowerCmd, strings.ToLower(filepath.Base(f))) {
			candidate = f
			break
		}
	}
	if candidate == "" {
		return true
	}
	path := candidate
	if !filepath.IsAbs(path) {
		path = filepath.Join(workspaceDir, path)
	}

	for i := 0; i < config.FileReferencePollAttempts; i++ {
		if fileExists(path) {
			return true
		}
		time.Sleep(time.Duration(config.FileReferencePollInterval) * time.Millisecond)
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
