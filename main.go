package main

import (
	"os"

	"github.com/catalystcommunity/app-utils-go/logging"
	"github.com/urfave/cli/v2"

	"github.com/haroon0x/agent-orchestrator/cmd"
)

func main() {
	app := &cli.App{
		Name:  "agent-orchestrator",
		Usage: "Agent job orchestrator: schedules prompts as sandboxed containers",
		Commands: []*cli.Command{
			cmd.ServeCommand,
			cmd.WorkerCommand,
			cmd.CleanupCommand,
			cmd.StatusCommand,
		},
	}
	err := app.Run(os.Args)
	if err != nil {
		logging.Log.WithError(err).Fatal("runtime error")
	}
}
