package cli

import (
	"context"
	"fmt"
	"strings"

	"roomprog/internal/cache"
	"roomprog/internal/catalog"
	"roomprog/internal/config"
	"roomprog/internal/controller"
	"roomprog/internal/format"
	"roomprog/internal/gateway"
	"roomprog/internal/glyph"
	"roomprog/internal/logging"
	"roomprog/internal/session"
	"roomprog/internal/store"
	"roomprog/internal/tui"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	Config     config.Config
	PrettyJSON bool

	log      *zap.Logger
	cats     *catalog.Catalog
	kv       *store.SQLiteKV
	gw       *gateway.Client
	ctl      *controller.Controller
	notifier *bufferNotifier
}

func NewRootCmd() *cobra.Command {
	cfg, cfgErr := config.Load(config.DefaultEnvFiles...)
	app := &App{Config: cfg}

	cmd := &cobra.Command{
		Use:          "roomprog",
		Short:        "Room programming client (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  roomprog --project p1

  # Scriptable commands
  roomprog rooms
  roomprog select 42
  roomprog tab doors
  roomprog items add --field doors_number=D-1 --field doors_quantity=2
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				defer app.close()
				return runTUI(cmd.Context(), app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cfgErr != nil {
			return writeErr(cmd, cfgErr)
		}
		if err := app.Config.Validate(); err != nil {
			return writeErr(cmd, err)
		}
		return nil
	}

	f := cmd.PersistentFlags()
	f.StringVar(&app.Config.APIURL, "api-url", cfg.APIURL, "Backend base URL")
	f.StringVar(&app.Config.Project, "project", cfg.Project, "Project id")
	f.StringVar(&app.Config.Session, "session", cfg.Session, "Session key scoping the persisted selection (default: the invoking shell)")
	f.StringVar(&app.Config.StateDir, "state-dir", cfg.StateDir, "Directory for client state (default ~/.roomprog)")
	f.StringVar(&app.Config.Categories, "categories", cfg.Categories, "Category catalog YAML (default: built-in)")
	f.StringVar(&app.Config.LogPath, "log", cfg.LogPath, "Write logs to this file")
	f.StringVar(&app.Config.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	f.DurationVar(&app.Config.Timeout, "timeout", cfg.Timeout, "Request timeout (0 = none)")
	f.StringVar(&app.Config.Prefetch, "prefetch", cfg.Prefetch, "Cache fill mode (category|room)")
	f.StringVar(&app.Config.Format, "format", cfg.Format, "Output format (json|edn|text)")
	f.BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")

	cmd.AddCommand(newRoomsCmd(app))
	cmd.AddCommand(newRoomCmd(app))
	cmd.AddCommand(newSelectCmd(app))
	cmd.AddCommand(newTabCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newSortCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newSpecialCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newCategoriesCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newSessionCmd(app))

	return cmd
}

func runTUI(ctx context.Context, app *App) error {
	if err := app.open(ctx, true); err != nil {
		return err
	}
	return tui.Run(ctx, tui.Options{
		Controller: app.ctl,
		Rooms:      app.gw,
		Logger:     app.log,
		ProjectID:  app.Config.Project,
	})
}

// open wires the controller stack. needProject is false for commands that only
// touch local state.
func (app *App) open(ctx context.Context, needProject bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if needProject && strings.TrimSpace(app.Config.Project) == "" {
		return errors.New("no project; pass --project or set ROOMPROG_PROJECT")
	}
	log, err := logging.New(app.Config.LogPath, app.Config.LogLevel)
	if err != nil {
		return err
	}
	app.log = log
	glyph.ApplyPreference()

	cats, err := catalog.Load(app.Config.Categories)
	if err != nil {
		return err
	}
	app.cats = cats

	dir, err := app.Config.ResolveStateDir()
	if err != nil {
		return err
	}
	kv, err := store.OpenSQLiteKV(ctx, dir, app.Config.SessionKey())
	if err != nil {
		return err
	}
	app.kv = kv

	app.gw = gateway.New(gateway.Options{
		BaseURL: app.Config.APIURL,
		Timeout: app.Config.Timeout,
		Logger:  log,
	}, cats)

	app.notifier = &bufferNotifier{log: log}
	app.ctl = controller.New(controller.Options{
		ProjectID: app.Config.Project,
		Catalog:   cats,
		Selection: session.New(kv, cats),
		Cache:     cache.New(),
		Gateway:   app.gw,
		Notifier:  app.notifier,
		Logger:    log,
		Prefetch:  app.Config.PrefetchMode(),
	})
	log.Debug("opened", zap.String("session", kv.Session()), zap.String("project", app.Config.Project))
	return nil
}

func (app *App) close() {
	if app.kv != nil {
		_ = app.kv.Close()
		app.kv = nil
	}
	if app.log != nil {
		_ = app.log.Sync()
	}
}

// start replays the persisted selection like a fresh launch: restore, load the
// room list and fetch the active tab.
func (app *App) start(ctx context.Context) error {
	if err := app.open(ctx, true); err != nil {
		return err
	}
	app.ctl.Run(ctx, app.ctl.Start())
	return app.notifier.failure()
}

// runE closes the stack after the command and reports its error on stderr.
func (app *App) runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer app.close()
		if err := fn(cmd, args); err != nil {
			return writeErr(cmd, err)
		}
		return nil
	}
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	env := envelope{Data: v}
	if app.notifier != nil {
		env.Notices = app.notifier.drain()
	}
	if app.Config.Format == format.Text {
		return format.Write(cmd.OutOrStdout(), textEnvelope(env), format.Text, false)
	}
	return format.Write(cmd.OutOrStdout(), env, app.Config.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
