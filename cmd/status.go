package cmd

import (
	"context"
	"fmt"

	"github.com/catalystcommunity/app-utils-go/logging"
	"github.com/urfave/cli/v2"

	"github.com/haroon0x/agent-orchestrator/internal/config"
	"github.com/haroon0x/agent-orchestrator/internal/dockermgr"
	"github.com/haroon0x/agent-orchestrator/internal/runtime"
)

// StatusCommand prints a one-shot census of agent containers, running or
// stopped,
// grounded on the original's DockerManager.py status helper.
var StatusCommand = &cli.Command{
	Name:  "status",
	Usage: "List agent-managed containers and their runtime state",
	Action: func(ctx *cli.Context) error {
		return RunStatus()
	},
}

// RunStatus lists every agent-managed container currently known to the
// container runtime.
func RunStatus() error {
	if err := config.LoadOverrides(); err != nil {
		return fmt.Errorf("loading config overrides: %w", err)
	}

	rt, err := runtime.NewDockerRuntime()
	if err != nil {
		return fmt.Errorf("connecting to container runtime: %w", err)
	}

	dm := dockermgr.New(rt)
	containers, err := dm.List(context.Background())
	if err != nil {
		return fmt.Errorf("listing agent containers: %w", err)
	}

	if len(containers) == 0 {
		logging.Log.Info("no agent containers found")
		return nil
	}

	for _, c := range containers {
		logging.Log.
			WithField("name", c.Name).
			WithField("container_id", c.ContainerID).
			WithField("status", c.Status).
			WithField("memory_usage", c.MemoryUsage).
			Info("agent container")
	}
	return nil
}
