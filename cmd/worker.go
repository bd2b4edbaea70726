package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/catalystcommunity/app-utils-go/logging"
	"github.com/urfave/cli/v2"

	"github.com/haroon0x/agent-orchestrator/internal/analyzer"
	"github.com/haroon0x/agent-orchestrator/internal/config"
	"github.com/haroon0x/agent-orchestrator/internal/workerrun"
)

// WorkerCommand is the in-container entrypoint: given JOB_PROMPT/JOB_ID
// in its environment (spec.md §6's worker env vars), it runs C5+C6 once
// and exits.
var WorkerCommand = &cli.Command{
	Name:  "worker",
	Usage: "Run a single job inside its container (entrypoint for the agent image)",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "output-dir",
			Usage:   "Explicit output directory override",
			EnvVars: []string{"AGENT_OUTPUT_DIR"},
		},
	},
	Action: func(ctx *cli.Context) error {
		return RunWorker(ctx)
	},
}

// RunWorker implements C7's per-invocation flow.
func RunWorker(ctx *cli.Context) error {
	jobID := os.Getenv("JOB_ID")
	prompt := os.Getenv("JOB_PROMPT")
	if jobID == "" || prompt == "" {
		return fmt.Errorf("worker requires JOB_ID and JOB_PROMPT in its environment")
	}

	outputDir := workerrun.DetectOutputDir(jobID, ctx.String("output-dir"))

	var client analyzer.ModelClient
	if config.ModelEndpoint != "" {
		client = analyzer.NewHTTPModelClient(config.ModelEndpoint, config.ModelAPIKey)
	} else {
		logging.Log.Warn("MODEL_ENDPOINT not configured, analyzer will always fall back to its default plan")
		client = unconfiguredModelClient{}
	}

	logging.Log.WithField("job_id", jobID).WithField("output_dir", outputDir).Info("starting worker run")

	manifest := workerrun.Run(context.Background(), client, jobID, prompt, outputDir, config.WorkerOSName)

	logging.Log.WithField("job_id", jobID).WithField("status", manifest.Status).Info("worker run finished")
	return nil
}

// unconfiguredModelClient always errors, driving the analyzer straight
// to its fallback plan when no model endpoint is configured.
type unconfiguredModelClient struct{}

func (unconfiguredModelClient) Complete(ctx context.Context, systemInstruction, userPrompt string) (string, error) {
	return "", fmt.Errorf("no model endpoint configured")
}
