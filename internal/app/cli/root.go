// Package cli implements yatubectl, the administrative command line for a
// yatube store: groups, users and a read-only view of posts.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dalemusser/yatube/internal/app/store"
	"github.com/dalemusser/yatube/internal/app/store/backends"
	"github.com/dalemusser/yatube/internal/app/system/timeouts"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Opener connects to a store. Tests substitute an in-memory one.
type Opener func(ctx context.Context, o backends.Options, logger *zap.Logger) (store.Backend, error)

// app is the state shared by every subcommand of one invocation.
type app struct {
	open    Opener
	opts    backends.Options
	verbose bool

	log   *zap.Logger
	store store.Backend
}

// NewRootCmd builds the yatubectl command tree. Connection flags default to
// the same YATUBE_* variables the server reads.
func NewRootCmd(open Opener) *cobra.Command {
	a := &app{open: open, log: zap.NewNop()}

	root := &cobra.Command{
		Use:           "yatubectl",
		Short:         "Administer a yatube store",
		Long:          `yatubectl manages groups and users and lists posts directly in the configured store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.connect(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.opts.Backend, "backend", envOr("YATUBE_STORE_BACKEND", backends.Mongo), "store backend: mongo, postgres or sqlite")
	f.StringVar(&a.opts.MongoURI, "mongo-uri", envOr("YATUBE_MONGO_URI", "mongodb://localhost:27017"), "MongoDB connection URI")
	f.StringVar(&a.opts.MongoDatabase, "mongo-database", envOr("YATUBE_MONGO_DATABASE", "yatube"), "MongoDB database name")
	f.StringVar(&a.opts.PostgresDSN, "postgres-dsn", os.Getenv("YATUBE_POSTGRES_DSN"), "Postgres connection string")
	f.StringVar(&a.opts.SQLitePath, "sqlite-path", envOr("YATUBE_SQLITE_PATH", "yatube.db"), "SQLite database file")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(newGroupCmd(a), newUserCmd(a), newPostCmd(a))
	return root
}

// Execute runs yatubectl against real backends and exits non-zero on error.
func Execute() {
	root := NewRootCmd(backends.Open)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) connect(cmd *cobra.Command) error {
	if a.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		a.log = l
	}
	timeouts.ConfigureFromEnv()

	ctx, cancel := timeouts.WithTimeout(cmd.Context(), timeouts.Long(), a.log, "connect")
	defer cancel()

	b, err := a.open(ctx, a.opts, a.log)
	if err != nil {
		return fmt.Errorf("open %s store: %w", backends.Normalize(a.opts.Backend), err)
	}
	if err := backends.EnsureSchema(ctx, b); err != nil {
		_ = b.Close(ctx)
		return fmt.Errorf("ensure schema: %w", err)
	}
	a.store = b
	return nil
}

func (a *app) close(cmd *cobra.Command) error {
	if a.store == nil {
		return nil
	}
	ctx, cancel := timeouts.WithTimeout(cmd.Context(), timeouts.Short(), a.log, "close")
	defer cancel()
	err := a.store.Close(ctx)
	a.store = nil
	_ = a.log.Sync()
	return err
}

// ctx bounds one store operation.
func (a *app) ctx(cmd *cobra.Command, op string) (context.Context, context.CancelFunc) {
	return timeouts.WithTimeout(cmd.Context(), timeouts.Medium(), a.log, op)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
