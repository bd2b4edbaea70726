package executor

import (
	"testing"

	"github.com/haroon0x/agent-orchestrator/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunShellCommandsSuccess(t *testing.T) {
	dir := t.TempDir()
	c := NewExecContext(dir, []model.Action{
		{Type: model.ActionShellCommand, Command: "echo hello"},
	})

	RunShellCommands(c)

	require.Len(t, c.ShellResults, 1)
	r := c.ShellResults[0]
	assert.True(t, r.Success)
	require.NotNil(t, r.ReturnCode)
	assert.Equal(t, 0, *r.ReturnCode)
	assert.Contains(t, r.Output, "hello")
}

func TestRunShellCommandsNonZeroExit(t *testing.T) {
	dir := t.TempDir()
	c := NewExecContext(dir, []model.Action{
		{Type: model.ActionShellCommand, Command: "exit 3"},
	})

	RunShellCommands(c)

	r := c.ShellResults[0]
	assert.False(t, r.Success)
	require.NotNil(t, r.ReturnCode)
	assert.Equal(t, 3, *r.ReturnCode)
}

func TestRunShellCommandsLinuxOnlySkipped(t *testing.T) {
	dir := t.TempDir()
	// A PATH with no utilities on it stands in for a host lacking ls.
	t.Setenv("PATH", t.TempDir())
	c := NewExecContext(dir, []model.Action{
		{Type: model.ActionShellCommand, Command: "ls -la"},
	})

	RunShellCommands(c)

	r := c.ShellResults[0]
	assert.False(t, r.Success)
	assert.Equal(t, "ls is Linux-only and was skipped", r.Error)
}

func TestRunShellCommandsSkipsWhenReferencedFileNeverAppears(t *testing.T) {
	dir := t.TempDir()
	c := NewExecContext(dir, []model.Action{
		{Type: model.ActionShellCommand, Command: "wc -l missing.txt"},
	})
	c.WrittenFiles = []string{"missing.txt"}

	RunShellCommands(c)

	require.Len(t, c.ShellResults, 1)
	r := c.ShellResults[0]
	assert.False(t, r.Success)
	assert.Equal(t, "wc -l missing.txt", r.Command)
	assert.Equal(t, "referenced file not found before execution", r.Error)
	assert.Nil(t, r.ReturnCode)
}

func TestRunShellCommandsLeavesOtherActionsUntouched(t *testing.T) {
	dir := t.TempDir()
	c := NewExecContext(dir, []model.Action{
		{Type: model.ActionShellCommand, Command: "echo hi"},
		{Type: model.ActionPythonCode, Command: "print('hi')"},
	})

	RunShellCommands(c)

	require.Len(t, c.Actions, 1)
	assert.Equal(t, model.ActionPythonCode, c.Actions[0].Type)
}

func TestReferencesWrittenFile(t *testing.T) {
	assert.True(t, referencesWrittenFile("cat out.txt", []string{"out.txt"}))
	assert.True(t, referencesWrittenFile("python3 script.py", []string{"nested/script.py"}))
	assert.False(t, referencesWrittenFile("echo hi", []string{"out.txt"}))
}
