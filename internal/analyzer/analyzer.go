// Package analyzer implements C5: turning a prompt into an ActionPlan.
// The model backend itself is an opaque, out-of-scope dependency
// (spec.md §1); this package owns only the instruction framing, JSON
// parsing, and the fallback-plan construction grounded on the
// original's TaskAnalysisNode.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/catalystcommunity/app-utils-go/logging"
	"github.com/haroon0x/agent-orchestrator/internal/model"
)

// ModelClient is the opaque Analyze(prompt) → ActionPlan dependency's
// transport: it sends the instruction pair and returns the model's raw
// text response.
type ModelClient interface {
	Complete(ctx context.Context, systemInstruction, userPrompt string) (string, error)
}

// Analyzer is C5.
type Analyzer struct {
	client ModelClient
	osName string
}

// New constructs an Analyzer. osName is embedded in the system
// instruction (spec.md §4.5: "bash on Ubuntu" or the host's flavor).
func New(client ModelClient, osName string) *Analyzer {
	if osName == "" {
		osName = "bash on Ubuntu"
	}
	return &Analyzer{client: client, osName: osName}
}

const systemInstructionTemplate = `You are a task planning assistant for a %s environment.
Decompose the user's request into an ordered JSON action plan.
Respond with a single JSON object only, no markdown fences, no surrounding text, matching:
{"actions":[{"type":"shell_command"|"python_code"|"file_operation","description":str,"command":str,"filename":str,"operation":str}],"estimated_time":str,"requirements":[str]}`

// Analyze always returns a usable plan: on transport failure or invalid
// JSON it returns the single-action fallback plan and logs the cause,
// so the worker runtime can always make forward progress.
func (a *Analyzer) Analyze(ctx context.Context, prompt string) model.ActionPlan {
	systemInstruction := fmt.Sprintf(systemInstructionTemplate, a.osName)

	raw, err := a.client.Complete(ctx, systemInstruction, prompt)
	if err != nil {
		logging.Log.WithError(err).Warn("analyzer transport failure, using fallback plan")
		return fallbackPlan()
	}

	plan, err := parsePlan(raw)
	if err != nil {
		logging.Log.WithError(err).Warn("analyzer returned invalid plan JSON, using fallback plan")
		return fallbackPlan()
	}
	return plan
}

func parsePlan(raw string) (model.ActionPlan, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var plan model.ActionPlan
	if err := json.Unmarshal([]byte(trimmed), &plan); err != nil {
		return model.ActionPlan{}, fmt.Errorf("parsing plan JSON: %w", err)
	}
	return plan, nil
}

// fallbackPlan is the literal fallback from the original's
// TaskAnalysisNode: a single shell_command that always succeeds.
func fallbackPlan() model.ActionPlan {
	return model.ActionPlan{
		Actions: []model.Action{
			{Type: model.ActionShellCommand, Command: "echo 'Task completed'"},
		},
		EstimatedTime: "1 minute",
		Requirements:  []string{},
	}
}
