package cmd

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/catalystcommunity/app-utils-go/errorutils"
	"github.com/catalystcommunity/app-utils-go/logging"
	"github.com/urfave/cli/v2"

	"github.com/haroon0x/agent-orchestrator/internal/config"
	"github.com/haroon0x/agent-orchestrator/internal/handlers"
	"github.com/haroon0x/agent-orchestrator/internal/health"
	"github.com/haroon0x/agent-orchestrator/internal/lifecycle"
	"github.com/haroon0x/agent-orchestrator/internal/registry"
	"github.com/haroon0x/agent-orchestrator/internal/runtime"
)

// ServeCommand runs the control-plane HTTP API.
var ServeCommand = &cli.Command{
	Name:  "serve",
	Usage: "Run the agent job orchestrator control API",
	Flags: serveFlags,
	Action: func(ctx *cli.Context) error {
		return Serve()
	},
}

var serveFlags = []cli.Flag{
	&cli.IntFlag{
		Name:        "port",
		Usage:       "Port to expose the control API on",
		Value:       config.Port,
		Destination: &config.Port,
		EnvVars:     []string{"PORT"},
	},
	&cli.StringFlag{
		Name:        "output-dir",
		Usage:       "Root directory for job output/logs/workspace",
		Value:       config.OutputDir,
		Destination: &config.OutputDir,
		EnvVars:     []string{"AGENT_OUTPUT_DIR"},
	},
	&cli.StringFlag{
		Name:        "image",
		Usage:       "Container image launched for each job",
		Value:       config.AgentImage,
		Destination: &config.AgentImage,
		EnvVars:     []string{"AGENT_IMAGE"},
	},
	&cli.IntFlag{
		Name:        "retention-days",
		Usage:       "Days a completed job's output is retained before cleanup",
		Value:       config.RetentionDays,
		Destination: &config.RetentionDays,
		EnvVars:     []string{"RETENTION_DAYS"},
	},
}

// Serve wires C1-C4 and C8 together and blocks on http.ListenAndServe.
func Serve() error {
	if err := config.LoadOverrides(); err != nil {
		return fmt.Errorf("loading config overrides: %w", err)
	}

	reg, err := registry.Load(filepath.Join(config.OutputDir, "jobs.json"))
	if err != nil {
		return fmt.Errorf("loading job registry: %w", err)
	}

	rt, err := runtime.NewDockerRuntime()
	if err != nil {
		return fmt.Errorf("connecting to container runtime: %w", err)
	}

	mgr := lifecycle.New(reg, rt, config.OutputDir, config.AgentImage, config.RetentionDays)

	supervisor := health.NewSupervisor(rt, config.HealthCheckIntervalSeconds, config.HealthHistoryRetentionHours, health.DefaultServiceChecks, config.ServiceProbeTimeoutSeconds)
	superCtx, superCancel := context.WithCancel(context.Background())
	defer superCancel()
	supervisor.Start(superCtx)
	defer supervisor.Stop()

	logging.Log.Info("running startup retention cleanup")
	mgr.Cleanup(superCtx)
	go runCleanupLoop(superCtx, mgr)

	handlers.SetHealthSupervisor(supervisor)
	handler := handlers.NewRouter(mgr, reg)

	logging.Log.WithField("port", config.Port).Info("starting agent orchestrator control API")
	err = http.ListenAndServe(fmt.Sprintf(":%d", config.Port), handler)
	errorutils.LogOnErr(nil, "ListenAndServe exited with: ", err)
	return err
}

// runCleanupLoop runs the retention GC on a fixed schedule in addition
// to whatever an operator triggers via the cleanup command.
func runCleanupLoop(ctx context.Context, mgr *lifecycle.Manager) {
	ticker := time.NewTicker(time.Duration(config.CleanupIntervalSeconds) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mgr.Cleanup(ctx)
		}
	}
}
