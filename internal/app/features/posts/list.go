// internal/app/features/posts/list.go
package posts

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/yatube/internal/app/features/errors"
	"github.com/dalemusser/yatube/internal/app/store"
	"github.com/dalemusser/yatube/internal/app/system/htmlsanitize"
	"github.com/dalemusser/yatube/internal/app/system/paging"
	"github.com/dalemusser/yatube/internal/app/system/timeouts"
	"github.com/dalemusser/yatube/internal/app/system/viewdata"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeIndex lists every post, newest first.
func (h *Handler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := ListData{BaseVM: viewdata.NewBaseVM(r, "Latest posts", "/")}
	if err := h.fillPage(ctx, r, &data, store.PostFilter{}); err != nil {
		h.ErrLog.LogServerError(w, r, "list posts", err, "Could not load posts.", "/")
		return
	}
	h.Render(w, r, http.StatusOK, ViewIndex, data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /group/{slug}                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeGroupPosts lists one group's posts.
func (h *Handler) ServeGroupPosts(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, err := h.Groups.GetBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		uierrors.RenderNotFound(h.Render, w, r, "Group not found.", "/")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get group by slug", err, "Could not load the group.", "/")
		return
	}

	data := ListData{
		BaseVM: viewdata.NewBaseVM(r, group.String(), "/"),
		Group: &GroupVM{
			ID:          group.ID,
			Title:       group.Title,
			Slug:        group.Slug,
			Description: htmlsanitize.Render(group.Description),
		},
	}
	if err := h.fillPage(ctx, r, &data, store.ByGroup(group.ID)); err != nil {
		h.ErrLog.LogServerError(w, r, "list group posts", err, "Could not load posts.", "/")
		return
	}
	h.Render(w, r, http.StatusOK, ViewGroupList, data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /profile/{username}                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeProfile lists one author's posts.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	author, err := h.Users.GetByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		uierrors.RenderNotFound(h.Render, w, r, "User not found.", "/")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get user by username", err, "Could not load the profile.", "/")
		return
	}

	data := ListData{
		BaseVM: viewdata.NewBaseVM(r, "Profile of "+author.DisplayName(), "/"),
		Author: &AuthorVM{ID: author.ID, Username: author.Username, Name: author.DisplayName()},
	}
	if err := h.fillPage(ctx, r, &data, store.ByAuthor(author.ID)); err != nil {
		h.ErrLog.LogServerError(w, r, "list author posts", err, "Could not load posts.", "/")
		return
	}
	data.PostCount = int64(data.Page.Count)
	h.Render(w, r, http.StatusOK, ViewProfile, data)
}

// fillPage counts the filtered posts, resolves ?page= and loads that window.
func (h *Handler) fillPage(ctx context.Context, r *http.Request, data *ListData, f store.PostFilter) error {
	n, err := h.Posts.Count(ctx, f)
	if err != nil {
		return err
	}
	page := paging.Paginate(int(n), h.PerPage, paging.ParsePage(r))

	ps, err := h.Posts.List(ctx, f, page.Offset, page.Limit)
	if err != nil {
		return err
	}
	if len(ps) != page.Len() {
		// Rows were added or removed between Count and List.
		h.Log.Debug("post count changed during listing",
			zap.Int("expected", page.Len()), zap.Int("got", len(ps)))
	}

	data.Posts = toPostVMs(ps, r)
	data.Page = page
	data.PageLinks = page.Window(pageLinkRadius)
	return nil
}
