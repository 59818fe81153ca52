package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/dalemusser/yatube/internal/app/store"
	"github.com/dalemusser/yatube/internal/domain/models"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the password every fixture user is created with.
const DefaultPassword = "correct-horse-battery"

// Fixtures provides helper methods for creating test data in any backend.
type Fixtures struct {
	store store.Backend
	t     *testing.T
}

// NewFixtures creates a new Fixtures instance for the given backend.
func NewFixtures(t *testing.T, s store.Backend) *Fixtures {
	t.Helper()
	return &Fixtures{store: s, t: t}
}

// Store returns the underlying backend for direct access in tests.
func (f *Fixtures) Store() store.Backend {
	return f.store
}

// CreateUser creates a user whose password is DefaultPassword.
func (f *Fixtures) CreateUser(ctx context.Context, username string) models.User {
	f.t.Helper()
	return f.CreateUserWithName(ctx, username, "")
}

// CreateUserWithName creates a user with a full name.
func (f *Fixtures) CreateUserWithName(ctx context.Context, username, fullName string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash password: %v", err)
	}
	u, err := f.store.Users().Create(ctx, models.User{
		Username:     username,
		FullName:     fullName,
		PasswordHash: string(hash),
	})
	if err != nil {
		f.t.Fatalf("failed to create test user %q: %v", username, err)
	}
	return u
}

// CreateGroup creates a group whose title is derived from the slug.
func (f *Fixtures) CreateGroup(ctx context.Context, slug string) models.Group {
	f.t.Helper()

	g, err := f.store.Groups().Create(ctx, models.Group{
		Title:       "Group " + slug,
		Slug:        slug,
		Description: "Test group " + slug,
	})
	if err != nil {
		f.t.Fatalf("failed to create test group %q: %v", slug, err)
	}
	return g
}

// CreatePost creates a post by author, optionally in a group.
func (f *Fixtures) CreatePost(ctx context.Context, author models.User, group *models.Group, text string) models.Post {
	f.t.Helper()

	p := models.Post{Text: text, AuthorID: author.ID}
	if group != nil {
		id := group.ID
		p.GroupID = &id
	}
	created, err := f.store.Posts().Create(ctx, p)
	if err != nil {
		f.t.Fatalf("failed to create test post: %v", err)
	}
	return created
}

// CreatePosts creates n posts numbered 1..n in creation order and returns
// them in that order.
func (f *Fixtures) CreatePosts(ctx context.Context, author models.User, group *models.Group, n int) []models.Post {
	f.t.Helper()

	out := make([]models.Post, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, f.CreatePost(ctx, author, group, fmt.Sprintf("Test post number %d", i)))
	}
	return out
}
