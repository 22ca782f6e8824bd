package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskwright/internal/core/learning"
	"github.com/colonyops/taskwright/internal/core/styles"
	"github.com/colonyops/taskwright/internal/core/task"
	"github.com/colonyops/taskwright/internal/engine"
	"github.com/colonyops/taskwright/pkg/iojson"
)

// StatsCmd implements the taskwright stats command.
type StatsCmd struct {
	flags *Flags
	app   *engine.App

	jsonOut bool
}

// NewStatsCmd creates a new stats command.
func NewStatsCmd(flags *Flags, app *engine.App) *StatsCmd {
	return &StatsCmd{flags: flags, app: app}
}

// statsOutput combines store statistics with the learning-model summary.
type statsOutput struct {
	Tasks    task.Statistics  `json:"tasks"`
	Learning learning.Summary `json:"learning"`
}

// Register adds the stats command to the application.
func (cmd *StatsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "stats",
		Usage: "Show task statistics and learning-model state",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output JSON",
				Destination: &cmd.jsonOut,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *StatsCmd) run(ctx context.Context, c *cli.Command) error {
	stats, err := cmd.app.Manager.Statistics(ctx)
	if err != nil {
		return err
	}
	out := statsOutput{
		Tasks:    stats,
		Learning: cmd.app.Scheduler.LearningSummary(),
	}

	if cmd.jsonOut {
		return iojson.Write(out)
	}

	fmt.Println(styles.Title.Render(fmt.Sprintf("Tasks: %d total, %d overdue", stats.Total, stats.Overdue)))
	for _, s := range []task.Status{task.StatusPending, task.StatusInProgress, task.StatusCompleted} {
		if n := stats.ByStatus[s]; n > 0 {
			fmt.Printf("  %-12s %d\n", styles.Status(s), n)
		}
	}
	for _, cat := range task.Categories() {
		if n := stats.ByCategory[cat]; n > 0 {
			fmt.Printf("  %-12s %d\n", cat, n)
		}
	}

	if len(out.Learning.Categories) == 0 && len(out.Learning.Templates) == 0 {
		fmt.Println(styles.Muted.Render("no estimate history yet"))
		return nil
	}

	fmt.Println(styles.Title.Render("Estimate accuracy"))
	fmt.Printf("  overall %.0f%%\n", out.Learning.OverallAccuracy*100)
	for _, ks := range out.Learning.Categories {
		fmt.Printf("  %-16s n=%-3d acc=%.0f%% ratio=%.2f\n", ks.Key, ks.SampleSize, ks.AverageAccuracy*100, ks.AverageRatio)
	}
	for _, ks := range out.Learning.Templates {
		fmt.Printf("  %-16s n=%-3d acc=%.0f%% ratio=%.2f %s\n", ks.Key, ks.SampleSize, ks.AverageAccuracy*100, ks.AverageRatio, styles.Muted.Render("(template)"))
	}
	return nil
}
