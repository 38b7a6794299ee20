package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fjod/krmotors/internal/backend"
	"github.com/fjod/krmotors/internal/cartstore"
	"github.com/fjod/krmotors/internal/catalog"
	"github.com/fjod/krmotors/internal/logger"
	"github.com/fjod/krmotors/internal/session"
)

// app is what a command needs: the local state, the backend and the
// services built on them.
type app struct {
	store    *cartstore.SQLiteStore
	client   *backend.Client
	cart     *cartstore.CartStore
	sessions *session.Manager
	catalog  *catalog.Service
	log      *slog.Logger
	out      *OutputFormatter
}

func openApp(opts *RootOptions, cmd *cobra.Command) (*app, error) {
	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	log := logger.New(cmd.ErrOrStderr(), logger.FormatText, level)

	if opts.StatePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(opts.StatePath), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	store, err := cartstore.OpenSQLite(opts.StatePath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "cannot open local state", err)
	}

	client, err := backend.NewClient(opts.APIURL,
		backend.WithTimeout(opts.Timeout),
		backend.WithLogger(log),
	)
	if err != nil {
		store.Close()
		return nil, WrapExitError(ExitCommandError, "invalid --api", err)
	}

	return &app{
		store:    store,
		client:   client,
		cart:     cartstore.NewCartStore(store, cartstore.CartKey, log),
		sessions: session.NewManager(store, client, log),
		catalog:  catalog.NewService(client, log),
		log:      log,
		out: &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
		},
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("failed to close state", "error", err)
	}
}

// runE adapts a command body that needs an app to cobra's RunE.
func runE(opts *RootOptions, fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(opts, cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd.Context(), a, args)
	}
}
