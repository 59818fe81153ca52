// internal/app/store/pgstore/pgstore.go
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/yatube/internal/app/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Store is the PostgreSQL backend. Relations are enforced by foreign keys
// declared in schema.
type Store struct {
	pool *pgxpool.Pool

	posts  *PostStore
	groups *GroupStore
	users  *UserStore
}

// Connect opens a pool for dsn and verifies it with a ping.
func Connect(ctx context.Context, dsn string, logger *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	logger.Info("connected to PostgreSQL", zap.String("database", pool.Config().ConnConfig.Database))
	return New(pool), nil
}

// New wraps an open pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:   pool,
		posts:  &PostStore{pool: pool},
		groups: &GroupStore{pool: pool},
		users:  &UserStore{pool: pool},
	}
}

func (s *Store) Posts() store.Posts   { return s.posts }
func (s *Store) Groups() store.Groups { return s.groups }
func (s *Store) Users() store.Users   { return s.users }
func (s *Store) Name() string         { return "postgres" }

// Pool returns the underlying pgxpool.Pool.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close(context.Context) error {
	s.pool.Close()
	return nil
}

// schema is idempotent; EnsureSchema runs it on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	username      VARCHAR(150) NOT NULL UNIQUE,
	username_ci   VARCHAR(150) NOT NULL UNIQUE,
	full_name     VARCHAR(150) NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS groups (
	id          BIGSERIAL PRIMARY KEY,
	title       VARCHAR(200) NOT NULL,
	slug        VARCHAR(50) NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS posts (
	id        BIGSERIAL PRIMARY KEY,
	text      TEXT NOT NULL,
	pub_date  TIMESTAMPTZ NOT NULL DEFAULT now(),
	author_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	group_id  BIGINT REFERENCES groups(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_posts_pub_date ON posts (pub_date DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_posts_group ON posts (group_id, pub_date DESC);
CREATE INDEX IF NOT EXISTS idx_posts_author ON posts (author_id, pub_date DESC);
`

// EnsureSchema creates tables and indexes if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres schema: %w", err)
	}
	return nil
}

// SQLSTATE codes we translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return store.ErrDuplicate
		case codeForeignKeyViolation:
			return store.ErrInvalidReference
		}
	}
	return err
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
