package executor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/haroon0x/agent-orchestrator/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFileOperationsWrite(t *testing.T) {
	dir := t.TempDir()
	c := NewExecContext(dir, []model.Action{
		{Type: model.ActionFileOperation, Operation: model.FileOpWrite, Filename: "notes/out.txt", Command: "hello"},
	})

	RunFileOperations(c)

	require.Len(t, c.FileResults, 1)
	assert.True(t, c.FileResults[0].Success)
	assert.Equal(t, []string{"notes/out.txt"}, c.WrittenFiles)

	content, err := os.ReadFile(filepath.Join(dir, "notes/out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestRunFileOperationsAppend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.txt")
	require.NoError(t, os.WriteFile(path, []byte("first\n"), 0o644))

	c := NewExecContext(dir, []model.Action{
		{Type: model.ActionFileOperation, Operation: model.FileOpAppend, Filename: "log.txt", Command: "second\n"},
	})
	RunFileOperations(c)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(content))
}

func TestRunFileOperationsCreateDirectoryDoesNotRecordWrittenFile(t *testing.T) {
	dir := t.TempDir()
	c := NewExecContext(dir, []model.Action{
		{Type: model.ActionFileOperation, Operation: model.FileOpCreateDirectory, Filename: "sub/dir"},
	})
	RunFileOperations(c)

	assert.True(t, c.FileResults[0].Success)
	assert.Empty(t, c.WrittenFiles)

	info, err := os.Stat(filepath.Join(dir, "sub/dir"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRunFileOperationsUnknownOperationFails(t *testing.T) {
	dir := t.TempDir()
	c := NewExecContext(dir, []model.Action{
		{Type: model.ActionFileOperation, Operation: "rename", Filename: "x.txt"},
	})
	RunFileOperations(c)

	assert.False(t, c.FileResults[0].Success)
	assert.Contains(t, c.FileResults[0].Error, "unknown file operation")
}

func TestRunFileOperationsLeavesOtherActionsUntouched(t *testing.T) {
	dir := t.TempDir()
	c := NewExecContext(dir, []model.Action{
		{Type: model.ActionFileOperation, Operation: model.FileOpWrite, Filename: "a.txt", Command: "x"},
		{Type: model.ActionShellCommand, Command: "ls"},
	})
	RunFileOperations(c)

	require.Len(t, c.Actions, 1)
	assert.Equal(t, model.ActionShellCommand, c.Actions[0].Type)
}
