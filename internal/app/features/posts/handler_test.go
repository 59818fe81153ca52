package posts_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/yatube/internal/app/features/errors"
	"github.com/dalemusser/yatube/internal/app/features/posts"
	"github.com/dalemusser/yatube/internal/app/store"
	"github.com/dalemusser/yatube/internal/app/system/auth"
	"github.com/dalemusser/yatube/internal/app/system/postform"
	"github.com/dalemusser/yatube/internal/domain/models"
	"github.com/dalemusser/yatube/internal/testutil"
	"go.uber.org/zap"
)

type env struct {
	h     *posts.Handler
	spy   *testutil.RenderSpy
	store store.Backend
	fx    *testutil.Fixtures
}

func newTestHandler(t *testing.T) *env {
	t.Helper()
	s := testutil.SetupSQLStore(t)
	logger := zap.NewNop()
	spy := &testutil.RenderSpy{}

	errLog := uierrors.NewErrorLogger(logger)
	errLog.Render = spy.Render
	h := posts.NewHandler(s, 0, errLog, logger)
	h.Render = spy.Render

	return &env{h: h, spy: spy, store: s, fx: testutil.NewFixtures(t, s)}
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func listData(t *testing.T, spy *testutil.RenderSpy) posts.ListData {
	t.Helper()
	data, ok := spy.Data.(posts.ListData)
	if !ok {
		t.Fatalf("rendered %T, want posts.ListData", spy.Data)
	}
	return data
}

func formData(t *testing.T, spy *testutil.RenderSpy) posts.FormData {
	t.Helper()
	data, ok := spy.Data.(posts.FormData)
	if !ok {
		t.Fatalf("rendered %T, want posts.FormData", spy.Data)
	}
	return data
}

/*─────────────────────────────────────────────────────────────────────────────*
| Listings                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func TestServeIndex_PaginatesNewestFirst(t *testing.T) {
	e := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leo := e.fx.CreateUser(ctx, "leo")
	created := e.fx.CreatePosts(ctx, leo, nil, 13)

	tests := []struct {
		query   string
		wantLen int
		wantNum int
		firstID int64
	}{
		{"", 10, 1, created[12].ID},
		{"?page=1", 10, 1, created[12].ID},
		{"?page=2", 3, 2, created[2].ID},
		{"?page=abc", 10, 1, created[12].ID},
		{"?page=99", 3, 2, created[2].ID},
		{"?page=0", 3, 2, created[2].ID},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.h.ServeIndex(rec, httptest.NewRequest("GET", "/"+tt.query, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if e.spy.View != posts.ViewIndex {
				t.Errorf("view = %q", e.spy.View)
			}
			data := listData(t, e.spy)
			if len(data.Posts) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(data.Posts), tt.wantLen)
			}
			if data.Page.Number != tt.wantNum || data.Page.NumPages != 2 {
				t.Errorf("page = %d/%d", data.Page.Number, data.Page.NumPages)
			}
			if data.Posts[0].ID != tt.firstID {
				t.Errorf("first post = %d, want %d", data.Posts[0].ID, tt.firstID)
			}
		})
	}
}

func TestServeIndex_Empty(t *testing.T) {
	e := newTestHandler(t)

	rec := httptest.NewRecorder()
	e.h.ServeIndex(rec, httptest.NewRequest("GET", "/?page=3", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data := listData(t, e.spy)
	if len(data.Posts) != 0 || data.Page.Number != 1 || data.Page.NumPages != 1 {
		t.Errorf("unexpected empty listing: %+v", data.Page)
	}
}

func TestServeIndex_PostCarriesAuthorAndGroup(t *testing.T) {
	e := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leo := e.fx.CreateUserWithName(ctx, "leo", "Leo Tolstoy")
	cats := e.fx.CreateGroup(ctx, "cats")
	e.fx.CreatePost(ctx, leo, &cats, "A long enough post text")

	e.h.ServeIndex(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	p := listData(t, e.spy).Posts[0]
	if p.AuthorUsername != "leo" || p.AuthorName != "Leo Tolstoy" {
		t.Errorf("author = %q/%q", p.AuthorUsername, p.AuthorName)
	}
	if !p.HasGroup || p.GroupSlug != "cats" || p.GroupTitle != cats.Title {
		t.Errorf("group = %+v", p)
	}
	if p.Title != "A long enough p" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.CanEdit {
		t.Error("anonymous visitor must not see edit")
	}
}

func TestServeGroupPosts(t *testing.T) {
	e := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leo := e.fx.CreateUser(ctx, "leo")
	cats := e.fx.CreateGroup(ctx, "cats")
	dogs := e.fx.CreateGroup(ctx, "dogs")
	e.fx.CreatePosts(ctx, leo, &cats, 11)
	e.fx.CreatePosts(ctx, leo, &dogs, 2)
	e.fx.CreatePost(ctx, leo, nil, "ungrouped")

	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/group/cats?page=2", nil), "slug", "cats")
	rec := httptest.NewRecorder()
	e.h.ServeGroupPosts(rec, req)

	if rec.Code != http.StatusOK || e.spy.View != posts.ViewGroupList {
		t.Fatalf("status/view = %d %q", rec.Code, e.spy.View)
	}
	data := listData(t, e.spy)
	if data.Group == nil || data.Group.Slug != "cats" {
		t.Fatalf("group = %+v", data.Group)
	}
	if data.Page.Count != 11 || len(data.Posts) != 1 {
		t.Errorf("count=%d len=%d", data.Page.Count, len(data.Posts))
	}
	for _, p := range data.Posts {
		if p.GroupSlug != "cats" {
			t.Errorf("foreign post %d in group listing", p.ID)
		}
	}
}

func TestServeGroupPosts_DescriptionSanitized(t *testing.T) {
	e := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := e.store.Groups().Create(ctx, models.Group{
		Title:       "Cats",
		Slug:        "cats",
		Description: `<p>About cats</p><script>alert(1)</script>`,
	})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/group/cats", nil), "slug", "cats")
	e.h.ServeGroupPosts(httptest.NewRecorder(), req)

	desc := string(listData(t, e.spy).Group.Description)
	if desc != "<p>About cats</p>" {
		t.Errorf("Description = %q", desc)
	}
}

func TestServeGroupPosts_UnknownSlug(t *testing.T) {
	e := newTestHandler(t)

	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/group/nope", nil), "slug", "nope")
	rec := httptest.NewRecorder()
	e.h.ServeGroupPosts(rec, req)

	if rec.Code != http.StatusNotFound || e.spy.View != uierrors.View {
		t.Errorf("status/view = %d %q", rec.Code, e.spy.View)
	}
}

func TestServeProfile(t *testing.T) {
	e := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leo := e.fx.CreateUserWithName(ctx, "leo", "Leo Tolstoy")
	anna := e.fx.CreateUser(ctx, "anna")
	e.fx.CreatePosts(ctx, leo, nil, 4)
	e.fx.CreatePosts(ctx, anna, nil, 2)

	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/profile/leo", nil), "username", "leo")
	rec := httptest.NewRecorder()
	e.h.ServeProfile(rec, req)

	if rec.Code != http.StatusOK || e.spy.View != posts.ViewProfile {
		t.Fatalf("status/view = %d %q", rec.Code, e.spy.View)
	}
	data := listData(t, e.spy)
	if data.Author == nil || data.Author.Username != "leo" || data.Author.Name != "Leo Tolstoy" {
		t.Errorf("author = %+v", data.Author)
	}
	if data.PostCount != 4 || len(data.Posts) != 4 {
		t.Errorf("count=%d len=%d", data.PostCount, len(data.Posts))
	}
}

func TestServeProfile_UnknownUser(t *testing.T) {
	e := newTestHandler(t)

	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/profile/ghost", nil), "username", "ghost")
	rec := httptest.NewRecorder()
	e.h.ServeProfile(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Detail                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func TestServeDetail(t *testing.T) {
	e := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leo := e.fx.CreateUser(ctx, "leo")
	e.fx.CreatePosts(ctx, leo, nil, 2)
	p := e.fx.CreatePost(ctx, leo, nil, "the one")

	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/posts/"+id(p.ID), nil), "id", id(p.ID))
	req = testutil.WithUser(req, leo)
	rec := httptest.NewRecorder()
	e.h.ServeDetail(rec, req)

	if rec.Code != http.StatusOK || e.spy.View != posts.ViewDetail {
		t.Fatalf("status/view = %d %q", rec.Code, e.spy.View)
	}
	data := e.spy.Data.(posts.DetailData)
	if data.Post.ID != p.ID || data.Post.Text != "the one" {
		t.Errorf("post = %+v", data.Post)
	}
	if data.AuthorPostCount != 3 {
		t.Errorf("AuthorPostCount = %d", data.AuthorPostCount)
	}
	if !data.Post.CanEdit {
		t.Error("author should see edit")
	}
}

func TestServeDetail_NotFound(t *testing.T) {
	e := newTestHandler(t)

	for _, raw := range []string{"9999", "abc", "0", "-3"} {
		t.Run(raw, func(t *testing.T) {
			req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/posts/"+raw, nil), "id", raw)
			rec := httptest.NewRecorder()
			e.h.ServeDetail(rec, req)

			if rec.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", rec.Code)
			}
		})
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Create                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func TestServeCreate_RendersEmptyForm(t *testing.T) {
	e := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leo := e.fx.CreateUser(ctx, "leo")
	e.fx.CreateGroup(ctx, "cats")

	rec := httptest.NewRecorder()
	e.h.ServeCreate(rec, testutil.WithUser(httptest.NewRequest("GET", "/create", nil), leo))

	if rec.Code != http.StatusOK || e.spy.View != posts.ViewForm {
		t.Fatalf("status/view = %d %q", rec.Code, e.spy.View)
	}
	data := formData(t, e.spy)
	if data.IsEdit || data.Text != "" || len(data.Groups) != 1 || data.Action != "/create" {
		t.Errorf("unexpected form %+v", data)
	}
}

func TestHandleCreate_Success(t *testing.T) {
	e := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leo := e.fx.CreateUser(ctx, "leo")
	cats := e.fx.CreateGroup(ctx, "cats")

	form := url.Values{"text": {"  Hello from the form  "}, "group": {id(cats.ID)}}
	req := testutil.WithUser(testutil.NewFormRequest("/create", form), leo)
	rec := httptest.NewRecorder()
	e.h.HandleCreate(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/profile/leo" {
		t.Errorf("Location = %q", loc)
	}

	list, _ := e.store.Posts().List(ctx, store.PostFilter{}, 0, 10)
	if len(list) != 1 {
		t.Fatalf("posts = %d, want 1", len(list))
	}
	p := list[0]
	if p.Text != "Hello from the form" || p.AuthorID != leo.ID || !p.InGroup(cats.ID) {
		t.Errorf("stored post = %+v", p)
	}
}

func TestHandleCreate_AuthorIsAlwaysCaller(t *testing.T) {
	e := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leo := e.fx.CreateUser(ctx, "leo")
	anna := e.fx.CreateUser(ctx, "anna")

	form := url.Values{"text": {"sneaky"}, "author": {id(anna.ID)}}
	e.h.HandleCreate(httptest.NewRecorder(), testutil.WithUser(testutil.NewFormRequest("/create", form), leo))

	if n, _ := e.store.Posts().Count(ctx, store.ByAuthor(leo.ID)); n != 1 {
		t.Errorf("posts by caller = %d, want 1", n)
	}
	if n, _ := e.store.Posts().Count(ctx, store.ByAuthor(anna.ID)); n != 0 {
		t.Errorf("posts by anna = %d, want 0", n)
	}
}

func TestHandleCreate_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		form      url.Values
		wantField string
		wantMsg   string
	}{
		{"empty text", url.Values{"text": {"   "}}, postform.FieldText, postform.MsgRequired},
		{"unknown group", url.Values{"text": {"ok"}, "group": {"9999"}}, postform.FieldGroup, postform.MsgInvalidChoice},
		{"garbage group", url.Values{"text": {"ok"}, "group": {"cats"}}, postform.FieldGroup, postform.MsgInvalidChoice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestHandler(t)
			ctx, cancel := testutil.TestContext()
			defer cancel()
			leo := e.fx.CreateUser(ctx, "leo")

			rec := httptest.NewRecorder()
			e.h.HandleCreate(rec, testutil.WithUser(testutil.NewFormRequest("/create", tt.form), leo))

			if rec.Code != http.StatusOK || e.spy.View != posts.ViewForm {
				t.Fatalf("status/view = %d %q", rec.Code, e.spy.View)
			}
			data := formData(t, e.spy)
			if msgs := data.FieldErrors[tt.wantField]; len(msgs) != 1 || msgs[0] != tt.wantMsg {
				t.Errorf("field errors = %v", data.FieldErrors)
			}
			if data.Text != tt.form.Get("text") {
				t.Errorf("text not echoed: %q", data.Text)
			}
			if n, _ := e.store.Posts().Count(ctx, store.PostFilter{}); n != 0 {
				t.Errorf("invalid form stored %d posts", n)
			}
		})
	}
}

func TestHandleCreate_NoUserRedirectsToLogin(t *testing.T) {
	e := newTestHandler(t)

	rec := httptest.NewRecorder()
	e.h.HandleCreate(rec, testutil.NewFormRequest("/create", url.Values{"text": {"x"}}))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login?next=") {
		t.Errorf("Location = %q", loc)
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Edit                                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func editRequest(method string, postID int64, form url.Values, u models.User) *http.Request {
	var req *http.Request
	if method == http.MethodPost {
		req = testutil.NewFormRequest("/posts/"+id(postID)+"/edit", form)
	} else {
		req = httptest.NewRequest(method, "/posts/"+id(postID)+"/edit", nil)
	}
	return testutil.WithUser(testutil.WithChiURLParam(req, "id", id(postID)), u)
}

func TestServeEdit_AuthorGetsPrefilledForm(t *testing.T) {
	e := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leo := e.fx.CreateUser(ctx, "leo")
	cats := e.fx.CreateGroup(ctx, "cats")
	p := e.fx.CreatePost(ctx, leo, &cats, "original")

	rec := httptest.NewRecorder()
	e.h.ServeEdit(rec, editRequest("GET", p.ID, nil, leo))

	if rec.Code != http.StatusOK || e.spy.View != posts.ViewForm {
		t.Fatalf("status/view = %d %q", rec.Code, e.spy.View)
	}
	data := formData(t, e.spy)
	if !data.IsEdit || data.PostID != p.ID || data.Text != "original" || data.Group != id(cats.ID) {
		t.Errorf("unexpected form %+v", data)
	}
	if len(data.Groups) != 1 || !data.Groups[0].Selected {
		t.Errorf("group not preselected: %+v", data.Groups)
	}
}

func TestServeEdit_NonAuthorForbidden(t *testing.T) {
	e := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leo := e.fx.CreateUser(ctx, "leo")
	anna := e.fx.CreateUser(ctx, "anna")
	p := e.fx.CreatePost(ctx, leo, nil, "original")

	rec := httptest.NewRecorder()
	e.h.ServeEdit(rec, editRequest("GET", p.ID, nil, anna))

	if rec.Code != http.StatusForbidden || e.spy.View != uierrors.View {
		t.Errorf("status/view = %d %q", rec.Code, e.spy.View)
	}
}

func TestServeEdit_UnknownPost(t *testing.T) {
	e := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	leo := e.fx.CreateUser(ctx, "leo")

	rec := httptest.NewRecorder()
	e.h.ServeEdit(rec, editRequest("GET", 9999, nil, leo))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleEdit_Success(t *testing.T) {
	e := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leo := e.fx.CreateUser(ctx, "leo")
	cats := e.fx.CreateGroup(ctx, "cats")
	p := e.fx.CreatePost(ctx, leo, &cats, "original")

	rec := httptest.NewRecorder()
	e.h.HandleEdit(rec, editRequest(http.MethodPost, p.ID, url.Values{"text": {"edited"}, "group": {""}}, leo))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/posts/"+id(p.ID) {
		t.Errorf("Location = %q", loc)
	}

	got, _ := e.store.Posts().GetByID(ctx, p.ID)
	if got.Text != "edited" || got.GroupID != nil {
		t.Errorf("not updated: %+v", got)
	}
	if got.AuthorID != leo.ID || !got.PubDate.Equal(p.PubDate) {
		t.Errorf("author or pub_date changed: %+v", got)
	}
}

func TestHandleEdit_NonAuthorForbiddenAndUnchanged(t *testing.T) {
	e := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leo := e.fx.CreateUser(ctx, "leo")
	anna := e.fx.CreateUser(ctx, "anna")
	p := e.fx.CreatePost(ctx, leo, nil, "original")

	rec := httptest.NewRecorder()
	e.h.HandleEdit(rec, editRequest(http.MethodPost, p.ID, url.Values{"text": {"hijacked"}}, anna))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	got, _ := e.store.Posts().GetByID(ctx, p.ID)
	if got.Text != "original" {
		t.Errorf("post changed by non-author: %q", got.Text)
	}
}

func TestHandleEdit_InvalidRerenders(t *testing.T) {
	e := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leo := e.fx.CreateUser(ctx, "leo")
	p := e.fx.CreatePost(ctx, leo, nil, "original")

	rec := httptest.NewRecorder()
	e.h.HandleEdit(rec, editRequest(http.MethodPost, p.ID, url.Values{"text": {""}}, leo))

	if rec.Code != http.StatusOK || e.spy.View != posts.ViewForm {
		t.Fatalf("status/view = %d %q", rec.Code, e.spy.View)
	}
	data := formData(t, e.spy)
	if !data.IsEdit || len(data.FieldErrors[postform.FieldText]) != 1 {
		t.Errorf("unexpected form %+v", data)
	}
	got, _ := e.store.Posts().GetByID(ctx, p.ID)
	if got.Text != "original" {
		t.Errorf("invalid edit stored: %q", got.Text)
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Routes                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func TestRoutes_ProtectedPathsRedirectToLogin(t *testing.T) {
	e := newTestHandler(t)
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test", "", 0, false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	router := posts.Routes(e.h, sm)

	for _, path := range []string{"/create", "/posts/1/edit"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))

		if rec.Code != http.StatusSeeOther {
			t.Errorf("%s: status = %d, want 303", path, rec.Code)
		}
		want := "/login?next=" + url.QueryEscape(path)
		if loc := rec.Header().Get("Location"); loc != want {
			t.Errorf("%s: Location = %q, want %q", path, loc, want)
		}
	}
}

func TestRoutes_PublicPaths(t *testing.T) {
	e := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	leo := e.fx.CreateUser(ctx, "leo")
	cats := e.fx.CreateGroup(ctx, "cats")
	p := e.fx.CreatePost(ctx, leo, &cats, "hello")

	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test", "", 0, false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	router := posts.Routes(e.h, sm)

	tests := []struct {
		path string
		view string
	}{
		{"/", posts.ViewIndex},
		{"/group/cats", posts.ViewGroupList},
		{"/profile/leo", posts.ViewProfile},
		{"/posts/" + id(p.ID), posts.ViewDetail},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
		if rec.Code != http.StatusOK || e.spy.View != tt.view {
			t.Errorf("%s: status/view = %d %q", tt.path, rec.Code, e.spy.View)
		}
	}
}
