package userstore_test

import (
	"testing"

	userstore "github.com/dalemusser/yatube/internal/app/store/users"
	"github.com/dalemusser/yatube/internal/app/system/auth"
	"github.com/dalemusser/yatube/internal/testutil"
)

var _ auth.UserFetcher = (*userstore.Fetcher)(nil)

func TestFetchUser(t *testing.T) {
	s := testutil.SetupSQLStore(t)
	fx := testutil.NewFixtures(t, s)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leo := fx.CreateUserWithName(ctx, "leo", "Leo Tolstoy")
	f := userstore.NewFetcher(s.Users())

	su := f.FetchUser(ctx, leo.ID)
	if su == nil {
		t.Fatal("expected user, got nil")
	}
	if su.ID != leo.ID || su.Username != "leo" || su.Name != "Leo Tolstoy" {
		t.Errorf("FetchUser = %+v", su)
	}
}

func TestFetchUser_Missing(t *testing.T) {
	s := testutil.SetupSQLStore(t)
	f := userstore.NewFetcher(s.Users())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, id := range []int64{0, -1, 4242} {
		if su := f.FetchUser(ctx, id); su != nil {
			t.Errorf("FetchUser(%d) = %+v, want nil", id, su)
		}
	}
}

func TestFetchUser_Deleted(t *testing.T) {
	s := testutil.SetupSQLStore(t)
	fx := testutil.NewFixtures(t, s)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leo := fx.CreateUser(ctx, "leo")
	if _, err := s.Users().Delete(ctx, leo.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if su := userstore.NewFetcher(s.Users()).FetchUser(ctx, leo.ID); su != nil {
		t.Errorf("deleted user still fetched: %+v", su)
	}
}
