package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskwright/internal/engine"
	"github.com/colonyops/taskwright/pkg/iojson"
)

// ExportCmd implements the taskwright export command.
type ExportCmd struct {
	flags *Flags
	app   *engine.App

	output string
}

// NewExportCmd creates a new export command.
func NewExportCmd(flags *Flags, app *engine.App) *ExportCmd {
	return &ExportCmd{flags: flags, app: app}
}

// Register adds the export command to the application.
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Export all tasks with statistics as JSON",
		UsageText: "taskwright export [--output file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "write to file instead of stdout",
				Destination: &cmd.output,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	bundle, err := cmd.app.Manager.ExportTasks(ctx)
	if err != nil {
		return err
	}

	if cmd.output != "" {
		if err := iojson.WriteFile(cmd.output, bundle); err != nil {
			return err
		}
		fmt.Printf("exported %d tasks to %s\n", len(bundle.Tasks), cmd.output)
		return nil
	}
	return iojson.Write(bundle)
}
