package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"syllabus-cli/internal/config"
	"syllabus-cli/internal/format"
	"syllabus-cli/internal/logger"
	"syllabus-cli/internal/perm"
	"syllabus-cli/internal/session"
	"syllabus-cli/internal/store"
)

type App struct {
	Dir         string
	Store       string
	DatabaseURL string
	User        string
	Format      string
	Pretty      bool
	LogMode     string

	admins       []string
	historyLimit int
	cfgErr       error
}

func NewRootCmd() *cobra.Command {
	app := &App{}
	cfg, err := config.Load()
	if err != nil {
		// Reported by PersistentPreRunE so --help still works.
		app.cfgErr = err
		cfg = &config.Config{Store: "sqlite", Format: format.JSON, LogMode: "off", HistoryLimit: session.DefaultHistoryLimit}
	}
	app.admins = cfg.AdminUsers
	app.historyLimit = cfg.HistoryLimit

	cmd := &cobra.Command{
		Use:           "syllabus",
		Short:         "Course outline editor (CLI + TUI)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Create a course and add a module to it
  syllabus courses create "Go 101"
  syllabus nodes add crs-1a2b3c4d crs-1a2b3c4d module --title "Basics"

  # Print a course as an indented outline
  syllabus --format outline courses show crs-1a2b3c4d

  # Edit interactively
  syllabus tui crs-1a2b3c4d
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if app.cfgErr != nil {
			return writeErr(cmd, app.cfgErr)
		}
		switch app.Format {
		case format.JSON, format.EDN, format.Outline:
		default:
			return writeErr(cmd, fmt.Errorf("unknown format: %s (expected json|edn|outline)", app.Format))
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", cfg.Dir, "Workspace dir holding the SQLite store and view state (env SYLLABUS_DIR)")
	cmd.PersistentFlags().StringVar(&app.Store, "store", cfg.Store, "Store backend: sqlite|postgres|memory (env SYLLABUS_STORE)")
	cmd.PersistentFlags().StringVar(&app.DatabaseURL, "database-url", cfg.DatabaseURL, "Postgres DSN for --store postgres (env SYLLABUS_DATABASE_URL)")
	cmd.PersistentFlags().StringVar(&app.User, "user", cfg.User, "Acting user id (env SYLLABUS_USER)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", cfg.Format, "Output format (json|edn|outline)")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", cfg.Pretty, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.LogMode, "log", cfg.LogMode, "Log mode for stderr: dev|prod|off (env SYLLABUS_LOG_MODE)")

	cmd.AddCommand(newCoursesCmd(app))
	cmd.AddCommand(newNodesCmd(app))
	cmd.AddCommand(newKindsCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newTUICmd(app))

	return cmd
}

// env bundles what one command invocation needs; Close releases it.
type env struct {
	deps  session.Deps
	store store.AggregateStore
	log   *logger.Logger
}

func (e *env) Close() {
	_ = e.store.Close()
	e.log.Sync()
}

func openEnv(ctx context.Context, app *App) (*env, error) {
	log, err := logger.New(app.LogMode)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, store.Options{Backend: app.Store, Dir: app.Dir, DatabaseURL: app.DatabaseURL})
	if err != nil {
		return nil, err
	}
	log = log.With("store", app.Store)
	return &env{
		deps: session.Deps{
			Store:        st,
			Auth:         perm.NewAuthorizer(st, app.admins),
			Log:          log,
			HistoryLimit: app.historyLimit,
		},
		store: st,
		log:   log,
	}, nil
}

// withSession opens courseID for the acting user, runs fn, and saves when fn changed the tree.
func withSession(cmd *cobra.Command, app *App, courseID string, fn func(s *session.Session) (any, error)) error {
	ctx := cmdContext(cmd)
	e, err := openEnv(ctx, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer e.Close()

	s, err := session.Open(ctx, e.deps, app.User, courseID)
	if err != nil {
		return writeErr(cmd, err)
	}
	out, err := fn(s)
	if err != nil {
		return writeErr(cmd, err)
	}
	if s.Dirty() {
		if err := s.Save(ctx); err != nil {
			return writeErr(cmd, err)
		}
	}
	return writeOut(cmd, app, out)
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	if app.Format == format.Outline {
		return format.Write(cmd.OutOrStdout(), v, app.Format, app.Pretty)
	}
	return format.Write(cmd.OutOrStdout(), map[string]any{"data": v}, app.Format, app.Pretty)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
