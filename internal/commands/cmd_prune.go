package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskwright/internal/engine"
)

// PruneCmd implements the taskwright prune command.
type PruneCmd struct {
	flags *Flags
	app   *engine.App

	days int64
}

// NewPruneCmd creates a new prune command.
func NewPruneCmd(flags *Flags, app *engine.App) *PruneCmd {
	return &PruneCmd{flags: flags, app: app}
}

// Register adds the prune command to the application.
func (cmd *PruneCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "prune",
		Usage:     "Delete old completed tasks",
		UsageText: "taskwright prune [--days N]",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:        "days",
				Usage:       "delete completed tasks older than this many days (defaults from config)",
				Destination: &cmd.days,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *PruneCmd) run(ctx context.Context, c *cli.Command) error {
	days := int(cmd.days)
	if days <= 0 {
		days = cmd.app.Config.Cleanup.Days
	}

	deleted, err := cmd.app.Manager.CleanupOldTasks(ctx, days)
	if err != nil {
		return err
	}
	fmt.Printf("deleted %d completed task(s) older than %d days\n", deleted, days)
	return nil
}
