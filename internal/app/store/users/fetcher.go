package userstore

import (
	"context"

	"github.com/dalemusser/yatube/internal/app/store"
	"github.com/dalemusser/yatube/internal/app/system/auth"
	"github.com/dalemusser/yatube/internal/app/system/timeouts"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each request.
type Fetcher struct {
	users store.Users
}

// NewFetcher creates a UserFetcher over the given user repository.
func NewFetcher(users store.Users) *Fetcher {
	return &Fetcher{users: users}
}

// FetchUser retrieves a user by ID and returns nil if the user is not found
// or if any error occurs. This implements auth.UserFetcher.
func (f *Fetcher) FetchUser(ctx context.Context, userID int64) *auth.SessionUser {
	if userID < 1 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	u, err := f.users.GetByID(ctx, userID)
	if err != nil {
		// User not found or DB error
		return nil
	}
	return &auth.SessionUser{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.FullName,
	}
}
