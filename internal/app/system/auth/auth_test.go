package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/yatube/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "s", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty session key")
	}
}

func TestRequireSignedIn_NoUser_RedirectsToLoginWithNext(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("protected handler should not run")
	}))

	req := httptest.NewRequest("GET", "/posts/7/edit?x=1", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	want := "/login?next=%2Fposts%2F7%2Fedit%3Fx%3D1"
	if got := rec.Header().Get("Location"); got != want {
		t.Errorf("Location = %q, want %q", got, want)
	}
}

func TestRequireSignedIn_NoUser_HTMX_ReturnsHXRedirect(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/create", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if hx := rec.Header().Get("HX-Redirect"); !strings.HasPrefix(hx, "/login?next=") {
		t.Errorf("expected HX-Redirect to /login, got %q", hx)
	}
}

func TestRequireSignedIn_WithUser_Proceeds(t *testing.T) {
	sm := newTestSessionManager(t)

	called := false
	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := auth.WithTestUser(httptest.NewRequest("GET", "/create", nil), &auth.SessionUser{ID: 1, Username: "leo"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if user, ok := auth.CurrentUser(req); ok || user != nil {
		t.Errorf("expected no user, got %+v", user)
	}
}

func TestLoginURL(t *testing.T) {
	if got := auth.LoginURL(""); got != "/login" {
		t.Errorf("LoginURL(\"\") = %q", got)
	}
	if got := auth.LoginURL("/create"); got != "/login?next=%2Fcreate" {
		t.Errorf("LoginURL(/create) = %q", got)
	}
}

// roundTrip logs a user in, then replays the cookie through LoadSessionUser.
func roundTrip(t *testing.T, sm *auth.SessionManager, u *auth.SessionUser) *auth.SessionUser {
	t.Helper()

	loginRec := httptest.NewRecorder()
	if err := sm.Login(loginRec, httptest.NewRequest("POST", "/login", nil), u); err != nil {
		t.Fatalf("Login: %v", err)
	}
	cookies := loginRec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("Login did not set a cookie")
	}

	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	var got *auth.SessionUser
	sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	})).ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestLoginThenLoadSessionUser(t *testing.T) {
	sm := newTestSessionManager(t)

	got := roundTrip(t, sm, &auth.SessionUser{ID: 42, Username: "leo", Name: "Leo Tolstoy"})
	if got == nil {
		t.Fatal("expected user in context after login")
	}
	if got.ID != 42 || got.Username != "leo" || got.Name != "Leo Tolstoy" {
		t.Errorf("unexpected user %+v", got)
	}
}

type fakeFetcher map[int64]*auth.SessionUser

func (f fakeFetcher) FetchUser(_ context.Context, id int64) *auth.SessionUser { return f[id] }

func TestLoadSessionUser_FetcherReloadsUser(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(fakeFetcher{42: {ID: 42, Username: "leo", Name: "Renamed"}})

	got := roundTrip(t, sm, &auth.SessionUser{ID: 42, Username: "leo", Name: "Old"})
	if got == nil || got.Name != "Renamed" {
		t.Errorf("expected fetched user, got %+v", got)
	}
}

func TestLoadSessionUser_DeletedUserIsSignedOut(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(fakeFetcher{})

	if got := roundTrip(t, sm, &auth.SessionUser{ID: 42, Username: "leo"}); got != nil {
		t.Errorf("expected no user, got %+v", got)
	}
}

func TestLoadSessionUser_NoCookie(t *testing.T) {
	sm := newTestSessionManager(t)

	called := false
	sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := auth.CurrentUser(r); ok {
			t.Error("expected no user")
		}
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if !called {
		t.Error("expected next handler to run")
	}
}

func TestSessionUser_DisplayName(t *testing.T) {
	if got := (&auth.SessionUser{Username: "leo"}).DisplayName(); got != "leo" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := (&auth.SessionUser{Username: "leo", Name: "Leo"}).DisplayName(); got != "Leo" {
		t.Errorf("DisplayName = %q", got)
	}
}
