// Package executor implements C6: the action-plan pipeline, a fixed
// sequence of sub-executors — file operations, shell commands, scripted
// code, then result compilation — each consuming its own tagged actions
// from a shared context and recording results into dedicated buckets.
//
// Grounded on the original's nodes.py (FileOperationNode,
// ShellCommandNode, PythonCodeNode, ResultCompilationNode): the Node
// prep/exec/post shape there maps onto a context struct threaded
// through ordinary Go functions here rather than an object graph.
package executor

import (
	"github.com/haroon0x/agent-orchestrator/internal/model"
)

// ExecContext is the shared state threaded through the pipeline,
// mirroring the original's `shared` dict passed between nodes.
type ExecContext struct {
	WorkspaceDir string

	// Actions is the plan's action list. Each sub-executor consumes
	// (removes) every action matching its own tag, left to right, and
	// leaves the rest for the next stage.
	Actions []model.Action

	ShellResults  []model.ActionResult
	PythonResults []model.ActionResult
	FileResults   []model.ActionResult

	// WrittenFiles tracks every file path written so far (by the file
	// sub-executor), used by the shell sub-executor's file-reference
	// detection.
	WrittenFiles []string
}

// NewExecContext constructs an ExecContext ready to run a plan.
func NewExecContext(workspaceDir string, actions []model.Action) *ExecContext {
	return &ExecContext{
		WorkspaceDir: workspaceDir,
		Actions:      append([]model.Action(nil), actions...),
	}
}

// takeByType removes and returns every action in c.Actions matching
// actionType, preserving order, leaving the rest in place.
func (c *ExecContext) takeByType(actionType string) []model.Action {
	var taken []model.Action
	var remaining []model.Action
	for _, a := range c.Actions {
		if a.Type == actionType {
			taken = append(taken, a)
		} else {
			remaining = append(remaining, a)
		}
	}
	c.Actions = remaining
	return taken
}
