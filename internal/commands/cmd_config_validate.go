package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskwright/internal/core/styles"
	"github.com/colonyops/taskwright/internal/engine"
)

// ConfigCmd implements the taskwright config command group.
type ConfigCmd struct {
	flags *Flags
	app   *engine.App
}

// NewConfigCmd creates a new config command.
func NewConfigCmd(flags *Flags, app *engine.App) *ConfigCmd {
	return &ConfigCmd{flags: flags, app: app}
}

// Register adds the config command group to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration helpers",
		Commands: []*cli.Command{
			{
				Name:   "validate",
				Usage:  "Validate the configuration file",
				Action: cmd.runValidate,
			},
		},
	})
	return app
}

func (cmd *ConfigCmd) runValidate(ctx context.Context, c *cli.Command) error {
	if err := cmd.app.Config.ValidateDeep(cmd.flags.ConfigPath); err != nil {
		return err
	}

	for _, w := range cmd.app.Config.Warnings() {
		fmt.Println(styles.Warning.Render(fmt.Sprintf("warning: %s %s: %s", w.Category, w.Item, w.Message)))
	}

	fmt.Println(styles.Success.Render("config is valid"))
	return nil
}
