// Package cli implements journalctl, the administrative command line for the
// journal server's database.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/journalapp/journal-server/internal/config"
	"github.com/journalapp/journal-server/internal/logger"
	"github.com/journalapp/journal-server/internal/service"
	"github.com/journalapp/journal-server/internal/store/sqlite"
)

// App holds the flags shared by every command.
type App struct {
	DataPath string
	Verbose  bool
}

// NewRootCmd builds the journalctl command tree.
func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "journalctl",
		Short:        "Administer a journal server database",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Create the account that owns the global tags
  journalctl createsuperuser --email admin@example.com --password s3cret

  # Seed the default color tags and list them
  journalctl tags seed
  journalctl tags list
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.DataPath, "data-path", "", "Directory holding journal.db (default: ~/Journal/data)")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Log store activity to stderr")

	addCreateSuperuser(cmd, app)
	addTags(cmd, app)
	addUsers(cmd, app)

	return cmd
}

// env is an opened database plus the services commands call into.
type env struct {
	store *sqlite.Store
	users *service.UserService
	tags  *service.TagService
}

func (e *env) Close() error {
	return e.store.Close()
}

// open resolves the data path and opens the database under it.
func (a *App) open() (*env, error) {
	defaultPath, err := config.DefaultDataPath()
	if err != nil {
		return nil, err
	}
	base, err := config.ExpandPath(a.DataPath, defaultPath)
	if err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("create data path: %w", err)
	}

	var log *slog.Logger
	if a.Verbose {
		log = logger.New(logger.Config{Writer: os.Stderr, Level: slog.LevelDebug}).Logger
	} else {
		log = logger.Discard().Logger
	}

	st, err := sqlite.Open(config.DataConfig{BasePath: base}.DatabasePath(), log)
	if err != nil {
		return nil, err
	}

	return &env{
		store: st,
		users: service.NewUserService(st, log),
		tags:  service.NewTagService(st, log),
	}, nil
}

// run opens the database, calls fn, and closes the database again.
func (a *App) run(fn func(ctx context.Context, e *env) error) error {
	e, err := a.open()
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(context.Background(), e)
}

// newTable returns a table whose header row is printed in bold.
func newTable(header ...any) *uitable.Table {
	tbl := uitable.New()
	tbl.MaxColWidth = 60
	tbl.Separator = "  "

	bold := color.New(color.Bold)
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = bold.Sprint(h)
	}
	tbl.AddRow(cells...)
	return tbl
}

func printTable(w io.Writer, tbl *uitable.Table) {
	_, _ = fmt.Fprintln(w, tbl)
}
