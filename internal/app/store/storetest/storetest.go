// Package storetest holds the behaviour every store.Backend must share.
// Each backend's tests call Run with a constructor for a fresh, empty store.
package storetest

import (
	"errors"
	"testing"

	"github.com/dalemusser/yatube/internal/app/store"
	"github.com/dalemusser/yatube/internal/domain/models"
	"github.com/dalemusser/yatube/internal/testutil"
	"github.com/dalemusser/waffle/pantry/text"
)

// Run executes the contract suite against backends built by newBackend.
func Run(t *testing.T, newBackend func(t *testing.T) store.Backend) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newBackend(t)) })
	t.Run("UserDeleteCascades", func(t *testing.T) { testUserDeleteCascades(t, newBackend(t)) })
	t.Run("Groups", func(t *testing.T) { testGroups(t, newBackend(t)) })
	t.Run("GroupDeleteClearsPosts", func(t *testing.T) { testGroupDeleteClearsPosts(t, newBackend(t)) })
	t.Run("PostCreate", func(t *testing.T) { testPostCreate(t, newBackend(t)) })
	t.Run("PostUpdate", func(t *testing.T) { testPostUpdate(t, newBackend(t)) })
	t.Run("PostListing", func(t *testing.T) { testPostListing(t, newBackend(t)) })
	t.Run("Ping", func(t *testing.T) {
		ctx, cancel := testutil.TestContext()
		defer cancel()
		if err := newBackend(t).Ping(ctx); err != nil {
			t.Fatalf("Ping: %v", err)
		}
	})
}

func testUsers(t *testing.T, s store.Backend) {
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, s)

	leo := fx.CreateUserWithName(ctx, "LeoT", "Leo Tolstoy")
	anna := fx.CreateUser(ctx, "anna")
	if leo.ID == 0 || anna.ID <= leo.ID {
		t.Errorf("ids not monotonic: %d then %d", leo.ID, anna.ID)
	}
	if leo.UsernameCI != text.Fold("LeoT") {
		t.Errorf("UsernameCI = %q", leo.UsernameCI)
	}

	got, err := s.Users().GetByUsername(ctx, "LeoT")
	if err != nil || got.ID != leo.ID || got.FullName != "Leo Tolstoy" {
		t.Errorf("GetByUsername = %+v, %v", got, err)
	}
	if _, err := s.Users().GetByUsername(ctx, "leot"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByUsername is case-sensitive; got err %v", err)
	}
	if got, err := s.Users().GetByUsernameCI(ctx, text.Fold("LEOT")); err != nil || got.ID != leo.ID {
		t.Errorf("GetByUsernameCI = %+v, %v", got, err)
	}
	if got, err := s.Users().GetByID(ctx, anna.ID); err != nil || got.Username != "anna" {
		t.Errorf("GetByID = %+v, %v", got, err)
	}
	if _, err := s.Users().GetByID(ctx, 9999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByID missing: %v", err)
	}
	if _, err := s.Users().Create(ctx, models.User{Username: "anna", PasswordHash: "x"}); !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("duplicate username: %v", err)
	}
}

func testUserDeleteCascades(t *testing.T, s store.Backend) {
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, s)

	leo := fx.CreateUser(ctx, "leo")
	anna := fx.CreateUser(ctx, "anna")
	fx.CreatePosts(ctx, leo, nil, 3)
	kept := fx.CreatePost(ctx, anna, nil, "anna's post")

	n, err := s.Users().Delete(ctx, leo.ID)
	if err != nil || n != 1 {
		t.Fatalf("Delete = %d, %v", n, err)
	}
	if c, _ := s.Posts().Count(ctx, store.ByAuthor(leo.ID)); c != 0 {
		t.Errorf("deleted user's posts remain: %d", c)
	}
	if _, err := s.Posts().GetByID(ctx, kept.ID); err != nil {
		t.Errorf("other user's post gone: %v", err)
	}
	if n, _ := s.Users().Delete(ctx, leo.ID); n != 0 {
		t.Errorf("second Delete = %d, want 0", n)
	}
}

func testGroups(t *testing.T, s store.Backend) {
	ctx, cancel := testutil.TestContext()
	defer cancel()

	dogs, err := s.Groups().Create(ctx, models.Group{Title: "Dogs", Slug: "dogs"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	cats, err := s.Groups().Create(ctx, models.Group{Title: "Cats", Slug: "cats", Description: "meow"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if cats.ID <= dogs.ID {
		t.Errorf("ids not monotonic: %d then %d", dogs.ID, cats.ID)
	}

	got, err := s.Groups().GetBySlug(ctx, "cats")
	if err != nil || got.ID != cats.ID || got.Description != "meow" || got.Title != "Cats" {
		t.Errorf("GetBySlug = %+v, %v", got, err)
	}
	if _, err := s.Groups().GetBySlug(ctx, "birds"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetBySlug missing: %v", err)
	}
	if got, err := s.Groups().GetByID(ctx, dogs.ID); err != nil || got.Slug != "dogs" {
		t.Errorf("GetByID = %+v, %v", got, err)
	}
	if _, err := s.Groups().Create(ctx, models.Group{Title: "Cats again", Slug: "cats"}); !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("duplicate slug: %v", err)
	}

	list, err := s.Groups().List(ctx)
	if err != nil || len(list) != 2 || list[0].Slug != "cats" || list[1].Slug != "dogs" {
		t.Errorf("List not ordered by title: %+v, %v", list, err)
	}
}

func testGroupDeleteClearsPosts(t *testing.T, s store.Backend) {
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, s)

	leo := fx.CreateUser(ctx, "leo")
	cats := fx.CreateGroup(ctx, "cats")
	p := fx.CreatePost(ctx, leo, &cats, "in cats")

	n, err := s.Groups().Delete(ctx, cats.ID)
	if err != nil || n != 1 {
		t.Fatalf("Delete = %d, %v", n, err)
	}
	got, err := s.Posts().GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("post deleted with its group: %v", err)
	}
	if got.GroupID != nil || got.Group != nil {
		t.Errorf("group not cleared: %+v", got)
	}
}

func testPostCreate(t *testing.T, s store.Backend) {
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, s)

	leo := fx.CreateUserWithName(ctx, "leo", "Leo Tolstoy")
	cats := fx.CreateGroup(ctx, "cats")

	first := fx.CreatePost(ctx, leo, &cats, "first post in cats")
	second := fx.CreatePost(ctx, leo, nil, "second")
	if first.ID == 0 || second.ID <= first.ID {
		t.Errorf("ids not monotonic: %d then %d", first.ID, second.ID)
	}
	if first.PubDate.IsZero() || second.PubDate.Before(first.PubDate) {
		t.Errorf("pub dates wrong: %v then %v", first.PubDate, second.PubDate)
	}

	got, err := s.Posts().GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Text != "first post in cats" || got.AuthorID != leo.ID || !got.InGroup(cats.ID) {
		t.Errorf("GetByID = %+v", got)
	}
	if got.Author == nil || got.Author.Username != "leo" || got.Author.FullName != "Leo Tolstoy" {
		t.Errorf("author not resolved: %+v", got.Author)
	}
	if got.Group == nil || got.Group.Slug != "cats" {
		t.Errorf("group not resolved: %+v", got.Group)
	}
	if !got.PubDate.Equal(first.PubDate) {
		t.Errorf("PubDate round trip: %v != %v", got.PubDate, first.PubDate)
	}

	if _, err := s.Posts().GetByID(ctx, 9999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByID missing: %v", err)
	}

	if _, err := s.Posts().Create(ctx, models.Post{Text: "x", AuthorID: 9999}); !errors.Is(err, store.ErrInvalidReference) {
		t.Errorf("unknown author: %v", err)
	}
	bad := int64(9999)
	if _, err := s.Posts().Create(ctx, models.Post{Text: "x", AuthorID: leo.ID, GroupID: &bad}); !errors.Is(err, store.ErrInvalidReference) {
		t.Errorf("unknown group: %v", err)
	}
}

func testPostUpdate(t *testing.T, s store.Backend) {
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, s)

	leo := fx.CreateUser(ctx, "leo")
	cats := fx.CreateGroup(ctx, "cats")
	dogs := fx.CreateGroup(ctx, "dogs")
	p := fx.CreatePost(ctx, leo, &cats, "original")

	if err := s.Posts().Update(ctx, p.ID, "edited", &dogs.ID); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := s.Posts().GetByID(ctx, p.ID)
	if got.Text != "edited" || !got.InGroup(dogs.ID) {
		t.Errorf("after update: %+v", got)
	}
	if got.AuthorID != leo.ID || !got.PubDate.Equal(p.PubDate) {
		t.Errorf("author or pub_date changed: %+v", got)
	}

	if err := s.Posts().Update(ctx, p.ID, "no group", nil); err != nil {
		t.Fatalf("Update to no group: %v", err)
	}
	got, _ = s.Posts().GetByID(ctx, p.ID)
	if got.GroupID != nil {
		t.Errorf("group not cleared: %+v", got)
	}

	if err := s.Posts().Update(ctx, 9999, "x", nil); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Update missing: %v", err)
	}
	bad := int64(9999)
	if err := s.Posts().Update(ctx, p.ID, "x", &bad); !errors.Is(err, store.ErrInvalidReference) {
		t.Errorf("Update unknown group: %v", err)
	}
}

func testPostListing(t *testing.T, s store.Backend) {
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, s)

	leo := fx.CreateUser(ctx, "leo")
	anna := fx.CreateUser(ctx, "anna")
	cats := fx.CreateGroup(ctx, "cats")

	leoCats := fx.CreatePosts(ctx, leo, &cats, 12)
	annaPlain := fx.CreatePosts(ctx, anna, nil, 3)

	count := func(f store.PostFilter) int64 {
		n, err := s.Posts().Count(ctx, f)
		if err != nil {
			t.Fatalf("Count: %v", err)
		}
		return n
	}
	if n := count(store.PostFilter{}); n != 15 {
		t.Errorf("Count all = %d", n)
	}
	if n := count(store.ByGroup(cats.ID)); n != 12 {
		t.Errorf("Count group = %d", n)
	}
	if n := count(store.ByAuthor(anna.ID)); n != 3 {
		t.Errorf("Count author = %d", n)
	}

	all, err := s.Posts().List(ctx, store.PostFilter{}, 0, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 10 {
		t.Fatalf("List len = %d", len(all))
	}
	if all[0].ID != annaPlain[2].ID {
		t.Errorf("newest first: got id %d, want %d", all[0].ID, annaPlain[2].ID)
	}
	for i := 1; i < len(all); i++ {
		if all[i].ID >= all[i-1].ID {
			t.Errorf("not newest first at %d: %d after %d", i, all[i].ID, all[i-1].ID)
		}
	}
	for _, p := range all {
		if p.Author == nil {
			t.Errorf("post %d missing author", p.ID)
		}
	}

	page2, err := s.Posts().List(ctx, store.ByGroup(cats.ID), 10, 10)
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(page2) != 2 || page2[0].ID != leoCats[1].ID || page2[1].ID != leoCats[0].ID {
		t.Errorf("group page 2 = %v", ids(page2))
	}
	for _, p := range page2 {
		if p.Group == nil || p.Group.Slug != "cats" {
			t.Errorf("post %d missing group", p.ID)
		}
	}

	both, _ := s.Posts().List(ctx, store.PostFilter{GroupID: &cats.ID, AuthorID: &anna.ID}, 0, 10)
	if len(both) != 0 {
		t.Errorf("combined filter = %v", ids(both))
	}
}

func ids(ps []models.Post) []int64 {
	out := make([]int64, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}
