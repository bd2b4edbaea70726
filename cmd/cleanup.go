package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/catalystcommunity/app-utils-go/logging"
	"github.com/urfave/cli/v2"

	"github.com/haroon0x/agent-orchestrator/internal/config"
	"github.com/haroon0x/agent-orchestrator/internal/dockermgr"
	"github.com/haroon0x/agent-orchestrator/internal/lifecycle"
	"github.com/haroon0x/agent-orchestrator/internal/registry"
	"github.com/haroon0x/agent-orchestrator/internal/runtime"
)

// CleanupCommand triggers the retention GC once and exits, for use from
// cron or an operator shell alongside the control API's own schedule.
var CleanupCommand = &cli.Command{
	Name:  "cleanup",
	Usage: "Run the retention garbage collector once",
	Flags: serveFlags,
	Action: func(ctx *cli.Context) error {
		return RunCleanup()
	},
}

// RunCleanup loads the current registry and runs one Cleanup pass.
func RunCleanup() error {
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

	dm := dockermgr.New(rt)
	if running, err := dm.List(context.Background()); err != nil {
		logging.Log.WithError(err).Warn("failed to list agent-managed containers before cleanup")
	} else {
		logging.Log.WithField("agent_containers", len(running)).Info("pre-cleanup container census")
	}

	logging.Log.Info("running retention cleanup")
	mgr.Cleanup(context.Background())
	logging.Log.Info("retention cleanup complete")
	return nil
}
