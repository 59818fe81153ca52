// internal/app/store/sqlstore/sqlstore.go
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/yatube/internal/app/store"
	"github.com/dalemusser/yatube/internal/domain/models"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store is the SQLite backend (gorm). Foreign keys are declared on the
// schema; deletes still run inside a transaction that applies SET NULL
// and CASCADE explicitly so behaviour does not depend on the
// foreign_keys pragma.
type Store struct {
	db *gorm.DB

	posts  *PostStore
	groups *GroupStore
	users  *UserStore
}

// Open opens (creating if needed) the SQLite database at path and migrates
// the schema.
func Open(path string, log *zap.Logger) (*Store, error) {
	memory := path == "" || path == MemoryPath
	dsn := path + "?_foreign_keys=on"
	if memory {
		dsn = "file::memory:?_foreign_keys=on"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	if memory {
		// Every pooled connection to :memory: is its own database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&userRow{}, &groupRow{}, &postRow{}); err != nil {
		return nil, fmt.Errorf("sqlite migrate: %w", err)
	}

	if log != nil {
		log.Info("opened SQLite database", zap.String("path", path), zap.Bool("memory", memory))
	}
	return New(db), nil
}

// New wraps an already opened and migrated gorm handle.
func New(db *gorm.DB) *Store {
	return &Store{
		db:     db,
		posts:  &PostStore{db: db},
		groups: &GroupStore{db: db},
		users:  &UserStore{db: db},
	}
}

func (s *Store) Posts() store.Posts   { return s.posts }
func (s *Store) Groups() store.Groups { return s.groups }
func (s *Store) Users() store.Users   { return s.users }
func (s *Store) Name() string         { return "sqlite" }

// DB exposes the gorm handle (tests).
func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

/*─────────────────────────────────────────────────────────────────────────────*
| Rows                                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

type userRow struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"size:150;not null;uniqueIndex"`
	UsernameCI   string `gorm:"column:username_ci;size:150;not null;uniqueIndex"`
	FullName     string `gorm:"size:150"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

type groupRow struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Title       string `gorm:"size:200;not null"`
	Slug        string `gorm:"size:50;not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
}

func (groupRow) TableName() string { return "groups" }

type postRow struct {
	ID       int64     `gorm:"primaryKey;autoIncrement"`
	Text     string    `gorm:"type:text;not null"`
	PubDate  time.Time `gorm:"not null;index:idx_posts_pub_date"`
	AuthorID int64     `gorm:"not null;index"`
	Author   *userRow  `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	GroupID  *int64    `gorm:"index"`
	Group    *groupRow `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL"`
}

func (postRow) TableName() string { return "posts" }

func (r userRow) toModel() models.User {
	return models.User{
		ID:           r.ID,
		Username:     r.Username,
		UsernameCI:   r.UsernameCI,
		FullName:     r.FullName,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

func (r groupRow) toModel() models.Group {
	return models.Group{
		ID:          r.ID,
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

func (r postRow) toModel() models.Post {
	p := models.Post{
		ID:       r.ID,
		Text:     r.Text,
		PubDate:  r.PubDate.UTC(),
		AuthorID: r.AuthorID,
		GroupID:  r.GroupID,
	}
	if r.Author != nil {
		a := r.Author.toModel()
		p.Author = &a
	}
	if r.Group != nil {
		g := r.Group.toModel()
		p.Group = &g
	}
	return p
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return store.ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		strings.Contains(err.Error(), "FOREIGN KEY constraint failed"):
		return store.ErrInvalidReference
	}
	return err
}

// now is the creation timestamp for new rows.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
