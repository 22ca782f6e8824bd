package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskwright/internal/core/schedule"
	"github.com/colonyops/taskwright/internal/core/styles"
	"github.com/colonyops/taskwright/internal/core/task"
	"github.com/colonyops/taskwright/internal/engine"
	"github.com/colonyops/taskwright/pkg/iojson"
)

// TaskCmd implements the taskwright task command group.
type TaskCmd struct {
	flags *Flags
	app   *engine.App

	// list flags
	listStatus   string
	listCategory string
	listPriority string
	listFolio    string
	listDue      string
	listJSON     bool

	// update flags
	updateTitle       string
	updateDescription string
	updateStatus      string
	updatePriority    string
	updateDue         string
	updateEstimate    string
	updateSubtaskDone int64
}

// NewTaskCmd creates a new task command.
func NewTaskCmd(flags *Flags, app *engine.App) *TaskCmd {
	return &TaskCmd{flags: flags, app: app, updateSubtaskDone: -1}
}

// Register adds the task command group to the application.
func (cmd *TaskCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "task",
		Usage: "Manage tasks",
		Description: `Task lifecycle commands.

Examples:
  taskwright task list --status pending
  taskwright task list --due today
  taskwright task start 3
  taskwright task complete 3
  taskwright task update 3 --priority high --due friday
  taskwright task delete 3`,
		Commands: []*cli.Command{
			cmd.listCmd(),
			cmd.showCmd(),
			cmd.startCmd(),
			cmd.completeCmd(),
			cmd.updateCmd(),
			cmd.deleteCmd(),
		},
	})
	return app
}

func (cmd *TaskCmd) listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List tasks",
		UsageText: "taskwright task list [filters]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "status",
				Aliases:     []string{"s"},
				Usage:       "filter by status (pending, in-progress, completed)",
				Destination: &cmd.listStatus,
			},
			&cli.StringFlag{
				Name:        "category",
				Aliases:     []string{"c"},
				Usage:       "filter by category (work, personal, creative, administrative, general)",
				Destination: &cmd.listCategory,
			},
			&cli.StringFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "filter by priority (low, medium, high, urgent)",
				Destination: &cmd.listPriority,
			},
			&cli.StringFlag{
				Name:        "folio",
				Usage:       "filter by folio id",
				Destination: &cmd.listFolio,
			},
			&cli.StringFlag{
				Name:        "due",
				Usage:       "due filter: today or overdue",
				Destination: &cmd.listDue,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output JSON",
				Destination: &cmd.listJSON,
			},
		},
		Action: cmd.runList,
	}
}

func (cmd *TaskCmd) runList(ctx context.Context, c *cli.Command) error {
	var (
		tasks []task.Task
		err   error
	)

	switch cmd.listDue {
	case "today":
		tasks, err = cmd.app.Manager.TodayTasks(ctx)
	case "overdue":
		tasks, err = cmd.app.Manager.OverdueTasks(ctx)
	case "":
		f := task.Filter{
			Status:   task.Status(cmd.listStatus),
			Category: task.Category(cmd.listCategory),
			Priority: task.Priority(cmd.listPriority),
			FolioID:  cmd.listFolio,
		}
		tasks, err = cmd.app.Manager.Tasks(ctx, f)
	default:
		return fmt.Errorf("unknown --due filter %q (want today or overdue)", cmd.listDue)
	}
	if err != nil {
		return err
	}

	if cmd.listJSON {
		return iojson.Write(tasks)
	}

	if len(tasks) == 0 {
		fmt.Println(styles.Muted.Render("no tasks"))
		return nil
	}
	for _, t := range tasks {
		printTaskLine(t)
	}
	return nil
}

func (cmd *TaskCmd) showCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one task as JSON",
		UsageText: "taskwright task show <id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := taskID(c)
			if err != nil {
				return err
			}
			t, err := cmd.app.Manager.GetTask(ctx, id)
			if err != nil {
				return err
			}
			return iojson.Write(t)
		},
	}
}

func (cmd *TaskCmd) startCmd() *cli.Command {
	return &cli.Command{
		Name:      "start",
		Usage:     "Start a task's timer",
		UsageText: "taskwright task start <id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := taskID(c)
			if err != nil {
				return err
			}
			t, err := cmd.app.Manager.StartTask(ctx, id)
			if err != nil {
				return err
			}
			fmt.Printf("started #%d %s\n", t.ID, t.Title)
			return nil
		},
	}
}

func (cmd *TaskCmd) completeCmd() *cli.Command {
	return &cli.Command{
		Name:      "complete",
		Aliases:   []string{"done"},
		Usage:     "Complete a task with time tracking",
		UsageText: "taskwright task complete <id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := taskID(c)
			if err != nil {
				return err
			}
			t, err := cmd.app.Manager.CompleteTask(ctx, id)
			if err != nil {
				return err
			}

			line := fmt.Sprintf("completed #%d %s", t.ID, t.Title)
			tt := t.TimeTracking
			if tt.ActualMinutes != nil {
				line += fmt.Sprintf(" (%d min", *tt.ActualMinutes)
				if tt.Accuracy != nil {
					line += fmt.Sprintf(", estimate accuracy %.0f%%", *tt.Accuracy*100)
				}
				line += ")"
			}
			fmt.Println(styles.Success.Render(line))
			return nil
		},
	}
}

func (cmd *TaskCmd) updateCmd() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update task fields",
		UsageText: "taskwright task update <id> [flags]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "new title", Destination: &cmd.updateTitle},
			&cli.StringFlag{Name: "description", Usage: "new description", Destination: &cmd.updateDescription},
			&cli.StringFlag{Name: "status", Usage: "new status (use start/complete for time tracking)", Destination: &cmd.updateStatus},
			&cli.StringFlag{Name: "priority", Usage: "new priority", Destination: &cmd.updatePriority},
			&cli.StringFlag{Name: "due", Usage: `new due date ("tomorrow", "friday", "2026-03-01")`, Destination: &cmd.updateDue},
			&cli.StringFlag{Name: "estimate", Usage: `time estimate ("2 hours", "30 minutes")`, Destination: &cmd.updateEstimate},
			&cli.Int64Flag{Name: "subtask-done", Usage: "mark subtask N (1-based) done", Value: -1, Destination: &cmd.updateSubtaskDone},
		},
		Action: cmd.runUpdate,
	}
}

func (cmd *TaskCmd) runUpdate(ctx context.Context, c *cli.Command) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	if p := task.Priority(cmd.updatePriority); cmd.updatePriority != "" && !p.Valid() {
		return fmt.Errorf("invalid priority %q", cmd.updatePriority)
	}
	if s := task.Status(cmd.updateStatus); cmd.updateStatus != "" && !s.Valid() {
		return fmt.Errorf("invalid status %q", cmd.updateStatus)
	}

	var due *time.Time
	if cmd.updateDue != "" {
		d, ok := schedule.ParseDate(cmd.updateDue, time.Now())
		if !ok {
			return fmt.Errorf("cannot parse due date %q", cmd.updateDue)
		}
		due = &d
	}

	estimate := 0
	if cmd.updateEstimate != "" {
		est, ok := schedule.ParseTimeEstimate(cmd.updateEstimate)
		if !ok {
			return fmt.Errorf("cannot parse estimate %q", cmd.updateEstimate)
		}
		estimate = est
	}

	t, err := cmd.app.Manager.UpdateTask(ctx, id, func(t *task.Task) {
		if cmd.updateTitle != "" {
			t.Title = cmd.updateTitle
		}
		if cmd.updateDescription != "" {
			t.Description = cmd.updateDescription
		}
		if cmd.updateStatus != "" {
			t.Status = task.Status(cmd.updateStatus)
		}
		if cmd.updatePriority != "" {
			t.Priority = task.Priority(cmd.updatePriority)
		}
		if due != nil {
			t.DueDate = due
		}
		if estimate > 0 {
			t.TimeTracking.EstimatedMinutes = estimate
		}
		if n := int(cmd.updateSubtaskDone); n >= 1 && n <= len(t.Subtasks) {
			t.Subtasks[n-1].Done = true
		}
	})
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			return fmt.Errorf("task %d not found", id)
		}
		return err
	}

	printTaskLine(t)
	return nil
}

func (cmd *TaskCmd) deleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a task",
		UsageText: "taskwright task delete <id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := taskID(c)
			if err != nil {
				return err
			}
			removed, err := cmd.app.Manager.DeleteTask(ctx, id)
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("task %d not found", id)
			}
			fmt.Printf("deleted #%d\n", id)
			return nil
		},
	}
}

// taskID parses the single positional id argument.
func taskID(c *cli.Command) (int64, error) {
	if c.Args().Len() != 1 {
		return 0, fmt.Errorf("expected exactly one task id argument")
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", c.Args().First())
	}
	return id, nil
}

func printTaskLine(t task.Task) {
	line := fmt.Sprintf("#%-4d %s  [%s] [%s]", t.ID, t.Title, styles.Status(t.Status), styles.Priority(t.Priority))
	if t.DueDate != nil {
		line += styles.Muted.Render("  due " + t.DueDate.Format("2006-01-02"))
	}
	fmt.Println(line)
}
