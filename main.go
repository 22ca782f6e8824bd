package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskwright/internal/commands"
	"github.com/colonyops/taskwright/internal/core/config"
	"github.com/colonyops/taskwright/internal/core/eventbus"
	"github.com/colonyops/taskwright/internal/core/extract"
	"github.com/colonyops/taskwright/internal/core/learning"
	"github.com/colonyops/taskwright/internal/engine"
	"github.com/colonyops/taskwright/internal/store/jsonfile"
	"github.com/colonyops/taskwright/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		app       = &engine.App{}
	)

	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "taskwright",
		Usage:     "Turn conversational text into a tracked task list",
		UsageText: "taskwright [global options] command [command options]",
		Description: `Taskwright extracts actionable tasks from free-form messages, classifies
them, suggests checklists from templates, and learns from completion
times to correct future estimates.

Run 'taskwright extract "message"' to propose tasks from a message.
Run 'taskwright task list' to see what's tracked.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TASKWRIGHT_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/taskwright.log)",
				Sources:     cli.EnvVars("TASKWRIGHT_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TASKWRIGHT_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TASKWRIGHT_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to
			// <datadir>/taskwright.log so stdout stays clean for output.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "taskwright.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			store := jsonfile.New(cfg.StatePath())

			// Rebuild the learning model from the persisted snapshot
			snapshot, err := store.Learning(ctx)
			if err != nil {
				return ctx, fmt.Errorf("load learning stats: %w", err)
			}
			learn := learning.FromSnapshot(snapshot, cfg.Learning.Window)

			bus := eventbus.New()
			eventbus.RegisterDebugLogger(bus, log.With().Str("component", "eventbus").Logger())

			scheduler := engine.NewScheduler(store, learn, store, bus, log.Logger)
			manager := engine.NewManager(store, scheduler, bus, extract.Options{
				MaxCandidates: cfg.Extraction.MaxCandidates,
				MinConfidence: &cfg.Extraction.MinConfidence,
			}, log.Logger)

			// Populate the pre-allocated App struct (commands already hold
			// a pointer to it)
			*app = *engine.NewApp(store, manager, scheduler, bus, cfg)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	root = commands.NewExtractCmd(flags, app).Register(root)
	root = commands.NewTaskCmd(flags, app).Register(root)
	root = commands.NewStatsCmd(flags, app).Register(root)
	root = commands.NewExportCmd(flags, app).Register(root)
	root = commands.NewPruneCmd(flags, app).Register(root)
	root = commands.NewConfigCmd(flags, app).Register(root)

	exitCode := 0
	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Println()
		fmt.Println(err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
