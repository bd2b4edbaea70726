package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/haroon0x/agent-orchestrator/internal/model"
	"github.com/stretchr/testify/assert"
)

type stubClient struct {
	response string
	err      error
}

func (s stubClient) Complete(ctx context.Context, systemInstruction, userPrompt string) (string, error) {
	return s.response, s.err
}

func TestAnalyzeValidJSON(t *testing.T) {
	raw := `{"actions":[{"type":"shell_command","command":"ls"}],"estimated_time":"5 minutes","requirements":["coreutils"]}`
	a := New(stubClient{response: raw}, "bash on Ubuntu")

	plan := a.Analyze(context.Background(), "list files")
	assert.Equal(t, "5 minutes", plan.EstimatedTime)
	assert.Len(t, plan.Actions, 1)
	assert.Equal(t, "ls", plan.Actions[0].Command)
}

func TestAnalyzeInvalidJSONFallsBack(t *testing.T) {
	a := New(stubClient{response: "not json at all"}, "bash on Ubuntu")

	plan := a.Analyze(context.Background(), "do something")
	assert.Equal(t, "1 minute", plan.EstimatedTime)
	assert.Empty(t, plan.Requirements)
	assert.Len(t, plan.Actions, 1)
	assert.Equal(t, "echo 'Task completed'", plan.Actions[0].Command)
}

func TestAnalyzeTransportFailureFallsBack(t *testing.T) {
	a := New(stubClient{err: errors.New("connection refused")}, "bash on Ubuntu")

	plan := a.Analyze(context.Background(), "do something")
	assert.Equal(t, model.ActionShellCommand, plan.Actions[0].Type)
}

func TestAnalyzeStripsMarkdownFencesIfPresent(t *testing.T) {
	raw := "```json\n{\"actions\":[],\"estimated_time\":\"1 minute\",\"requirements\":[]}\n```"
	a := New(stubClient{response: raw}, "bash on Ubuntu")

	plan := a.Analyze(context.Background(), "anything")
	assert.Empty(t, plan.Actions)
}
