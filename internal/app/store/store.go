// Package store defines the repository contracts the handlers depend on.
//
// Three backends implement them: mongostore (MongoDB), pgstore (PostgreSQL
// via pgx) and sqlstore (SQLite via gorm). Every backend honours the same
// relational rules:
//   - posts list newest first (pub_date desc, id desc);
//   - deleting a group clears group_id on its posts;
//   - deleting a user deletes that user's posts;
//   - ids are int64 and increase monotonically per entity.
package store

import (
	"context"
	"errors"

	"github.com/dalemusser/yatube/internal/domain/models"
)

var (
	// ErrNotFound is returned when a lookup by id, slug or username matches nothing.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicate is returned when a unique key (group slug, username) is taken.
	ErrDuplicate = errors.New("store: duplicate key")

	// ErrInvalidReference is returned when a post points at a group or
	// author that does not exist.
	ErrInvalidReference = errors.New("store: invalid reference")
)

// PostFilter narrows a post listing. Nil fields mean "any".
type PostFilter struct {
	GroupID  *int64
	AuthorID *int64
}

// ByGroup returns a filter for one group's posts.
func ByGroup(id int64) PostFilter { return PostFilter{GroupID: &id} }

// ByAuthor returns a filter for one author's posts.
func ByAuthor(id int64) PostFilter { return PostFilter{AuthorID: &id} }

// Posts is the post repository.
type Posts interface {
	// Create assigns ID and PubDate and persists the post.
	Create(ctx context.Context, p models.Post) (models.Post, error)
	// GetByID returns the post with Author and Group populated.
	GetByID(ctx context.Context, id int64) (models.Post, error)
	// Update replaces text and group only; id, author and pub_date are kept.
	Update(ctx context.Context, id int64, text string, groupID *int64) error
	Count(ctx context.Context, f PostFilter) (int64, error)
	// List returns one window of the filtered posts, newest first, with
	// Author and Group populated.
	List(ctx context.Context, f PostFilter, offset, limit int) ([]models.Post, error)
}

// Groups is the group repository.
type Groups interface {
	Create(ctx context.Context, g models.Group) (models.Group, error)
	GetByID(ctx context.Context, id int64) (models.Group, error)
	GetBySlug(ctx context.Context, slug string) (models.Group, error)
	// List returns every group ordered by title.
	List(ctx context.Context) ([]models.Group, error)
	// Delete removes the group and clears group_id on its posts.
	// Returns the number of groups deleted (0 or 1).
	Delete(ctx context.Context, id int64) (int64, error)
}

// Users is the user repository.
type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	// GetByUsername matches the username exactly.
	GetByUsername(ctx context.Context, username string) (models.User, error)
	// GetByUsernameCI matches the folded username (login lookups).
	GetByUsernameCI(ctx context.Context, usernameCI string) (models.User, error)
	// Delete removes the user and every post they authored.
	Delete(ctx context.Context, id int64) (int64, error)
}

// Backend bundles the repositories of one database.
type Backend interface {
	Posts() Posts
	Groups() Groups
	Users() Users
	// Name identifies the backend in logs and health output.
	Name() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
