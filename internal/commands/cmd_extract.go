package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskwright/internal/core/styles"
	"github.com/colonyops/taskwright/internal/engine"
	"github.com/colonyops/taskwright/pkg/iojson"
)

// ExtractCmd implements the taskwright extract command.
type ExtractCmd struct {
	flags *Flags
	app   *engine.App
	fr    *iojson.FileReader[ExtractInput]

	messageID string
	folioID   string
	yes       bool
	jsonOut   bool
}

// NewExtractCmd creates a new extract command.
func NewExtractCmd(flags *Flags, app *engine.App) *ExtractCmd {
	return &ExtractCmd{
		flags: flags,
		app:   app,
		fr:    &iojson.FileReader[ExtractInput]{},
	}
}

// ExtractInput is the JSON shape for batch extraction input.
type ExtractInput struct {
	Messages []ExtractMessage `json:"messages"`
}

// ExtractMessage is a single message to extract tasks from.
type ExtractMessage struct {
	Text      string `json:"text"`
	MessageID string `json:"message_id,omitempty"`
	FolioID   string `json:"folio_id,omitempty"`
}

// Validate checks the batch input for errors using criterio.
func (in ExtractInput) Validate() error {
	if len(in.Messages) == 0 {
		return criterio.NewFieldErrors("messages", fmt.Errorf("array is empty"))
	}

	var errs criterio.FieldErrorsBuilder
	for i, msg := range in.Messages {
		if strings.TrimSpace(msg.Text) == "" {
			errs = errs.Append(fmt.Sprintf("messages[%d].text", i), fmt.Errorf("text is required"))
		}
	}
	return errs.ToError()
}

// Register adds the extract command to the application.
func (cmd *ExtractCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "extract",
		Usage:     "Extract tasks from a message",
		UsageText: "taskwright extract [options] [message]",
		Description: `Finds candidate tasks in free-form message text, suggests templates,
and creates tasks after review.

With a message argument, candidates are reviewed interactively.
Use --yes to skip review, or --json to print the proposal without
creating anything.

With --file (or piped stdin) a JSON batch of messages is processed;
batch mode implies --yes.

Examples:
  taskwright extract "I need to call Bob about the budget by Friday."
  taskwright extract --yes "Remember to submit the tax forms"
  taskwright extract --json "Schedule a team meeting"
  echo '{"messages":[{"text":"buy groceries"}]}' | taskwright extract`,
		Flags: []cli.Flag{
			cmd.fr.Flag(),
			&cli.StringFlag{
				Name:        "message-id",
				Usage:       "message identifier to back-reference on created tasks",
				Destination: &cmd.messageID,
			},
			&cli.StringFlag{
				Name:        "folio",
				Usage:       "folio identifier to back-reference on created tasks",
				Destination: &cmd.folioID,
			},
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "confirm all candidates without review",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the proposal as JSON and create nothing",
				Destination: &cmd.jsonOut,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *ExtractCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() > 0 {
		msg := ExtractMessage{
			Text:      strings.Join(c.Args().Slice(), " "),
			MessageID: cmd.messageID,
			FolioID:   cmd.folioID,
		}
		return cmd.runOne(ctx, msg, !cmd.yes && !cmd.jsonOut)
	}

	input, err := cmd.fr.Read()
	if err != nil {
		return err
	}

	// Batch input is non-interactive: each message is confirmed (or, with
	// --json, printed) before the next replaces the pending slot.
	for _, msg := range input.Messages {
		if err := cmd.runOne(ctx, msg, false); err != nil {
			return err
		}
	}
	return nil
}

func (cmd *ExtractCmd) runOne(ctx context.Context, msg ExtractMessage, interactive bool) error {
	pending, err := cmd.app.Manager.HandleMessage(ctx, msg.Text, msg.MessageID, msg.FolioID)
	if err != nil {
		return err
	}
	if pending == nil {
		fmt.Println(styles.Muted.Render("no task candidates found"))
		return nil
	}

	if cmd.jsonOut {
		cmd.app.Manager.Cancel()
		return iojson.Write(pending)
	}

	overrides := map[int]engine.Override{}
	if interactive {
		confirmed, reviewed, err := cmd.review(pending)
		if err != nil {
			return err
		}
		if !confirmed {
			cmd.app.Manager.Cancel()
			fmt.Println(styles.Muted.Render("cancelled, no tasks created"))
			return nil
		}
		overrides = reviewed
	}

	created, err := cmd.app.Manager.Confirm(ctx, overrides)
	if err != nil {
		return err
	}

	for _, t := range created {
		fmt.Printf("%s %s  %s\n",
			styles.Success.Render(fmt.Sprintf("created #%d", t.ID)),
			styles.Title.Render(t.Title),
			styles.Muted.Render(string(t.Category)),
		)
	}
	if len(created) == 0 {
		fmt.Println(styles.Muted.Render("no tasks created"))
	}

	log.Debug().Int("created", len(created)).Msg("extract command finished")
	return nil
}

const skipChoice = "__skip__"

// review walks the user through template selection per candidate and a
// final confirmation.
func (cmd *ExtractCmd) review(pending *engine.Pending) (bool, map[int]engine.Override, error) {
	choices := make([]string, len(pending.Candidates))
	groups := make([]*huh.Group, 0, len(pending.Candidates)+1)

	for i := range pending.Candidates {
		cand := pending.Candidates[i]

		opts := []huh.Option[string]{huh.NewOption("No template", "")}
		for _, tpl := range cand.Templates {
			label := fmt.Sprintf("%s %s (%s)", tpl.Icon, tpl.Name, tpl.EstimatedTime)
			opts = append(opts, huh.NewOption(label, tpl.Type))
		}
		opts = append(opts, huh.NewOption("Skip this task", skipChoice))

		desc := fmt.Sprintf("confidence %.2f · category %s", cand.Confidence, cand.Category)
		if cand.Date != nil {
			desc += fmt.Sprintf(" · due hint %q", cand.Date.Raw)
		}
		if len(cand.Related) > 0 {
			desc += fmt.Sprintf("\nrelated: %s (%s)", cand.Related[0].Task.Title, cand.Related[0].Reason)
		}

		groups = append(groups, huh.NewGroup(
			huh.NewSelect[string]().
				Title(cand.Text).
				Description(desc).
				Options(opts...).
				Value(&choices[i]),
		))
	}

	var confirmed bool
	groups = append(groups, huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Create %d task(s)?", len(pending.Candidates))).
			Value(&confirmed),
	))

	if err := huh.NewForm(groups...).Run(); err != nil {
		return false, nil, err
	}

	overrides := make(map[int]engine.Override, len(choices))
	for i, choice := range choices {
		switch choice {
		case skipChoice:
			overrides[i] = engine.Override{Skip: true}
		case "":
			// no template
		default:
			overrides[i] = engine.Override{TemplateType: choice}
		}
	}
	return confirmed, overrides, nil
}
