// Package backends selects and opens one of the store implementations by name.
package backends

import (
	"context"
	"fmt"
	"strings"

	"github.com/dalemusser/yatube/internal/app/store"
	"github.com/dalemusser/yatube/internal/app/store/mongostore"
	"github.com/dalemusser/yatube/internal/app/store/pgstore"
	"github.com/dalemusser/yatube/internal/app/store/sqlstore"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Backend names.
const (
	Mongo    = "mongo"
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// Names lists the supported backends.
var Names = []string{Mongo, Postgres, SQLite}

// Options carries the connection settings for every backend; only the
// fields of the selected one are read.
type Options struct {
	Backend string

	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64

	PostgresDSN string

	SQLitePath string
}

// Normalize lowercases and trims the backend name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Validate checks the settings of the selected backend without connecting.
func (o Options) Validate() error {
	switch Normalize(o.Backend) {
	case Mongo:
		if err := wafflemongo.ValidateURI(o.MongoURI); err != nil {
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if strings.TrimSpace(o.MongoDatabase) == "" {
			return fmt.Errorf("mongo_database is required")
		}
	case Postgres:
		if strings.TrimSpace(o.PostgresDSN) == "" {
			return fmt.Errorf("postgres_dsn is required for the postgres backend")
		}
		if _, err := pgxpool.ParseConfig(o.PostgresDSN); err != nil {
			return fmt.Errorf("invalid Postgres DSN: %w", err)
		}
	case SQLite:
		if strings.TrimSpace(o.SQLitePath) == "" {
			return fmt.Errorf("sqlite_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q (want one of %s)", o.Backend, strings.Join(Names, ", "))
	}
	return nil
}

// Open connects to the selected backend.
func Open(ctx context.Context, o Options, logger *zap.Logger) (store.Backend, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	switch Normalize(o.Backend) {
	case Mongo:
		return asBackend(mongostore.Connect(ctx, o.MongoURI, o.MongoDatabase, o.MongoMaxPoolSize, logger))
	case Postgres:
		return asBackend(pgstore.Connect(ctx, o.PostgresDSN, logger))
	default:
		return asBackend(sqlstore.Open(o.SQLitePath, logger))
	}
}

// asBackend keeps a failed open from yielding a non-nil interface that
// wraps a nil pointer.
func asBackend[S store.Backend](s S, err error) (store.Backend, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates indexes or tables for backends that need it at
// startup. SQLite migrates when opened.
func EnsureSchema(ctx context.Context, b store.Backend) error {
	switch s := b.(type) {
	case *mongostore.Store:
		return s.EnsureIndexes(ctx)
	case *pgstore.Store:
		return s.EnsureSchema(ctx)
	}
	return nil
}
