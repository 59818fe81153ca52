// internal/app/features/posts/detail.go
package posts

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	uierrors "github.com/dalemusser/yatube/internal/app/features/errors"
	"github.com/dalemusser/yatube/internal/app/store"
	"github.com/dalemusser/yatube/internal/app/system/auth"
	"github.com/dalemusser/yatube/internal/app/system/timeouts"
	"github.com/dalemusser/yatube/internal/app/system/viewdata"
	"github.com/dalemusser/yatube/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /posts/{id}                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeDetail shows one post with its author's post count.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	post, ok := h.loadPost(ctx, w, r)
	if !ok {
		return
	}

	n, err := h.Posts.Count(ctx, store.ByAuthor(post.AuthorID))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count author posts", err, "Could not load the post.", "/")
		return
	}

	actor, _ := auth.CurrentUser(r)
	h.Render(w, r, http.StatusOK, ViewDetail, DetailData{
		BaseVM:          viewdata.NewBaseVM(r, "Post "+post.String(), "/"),
		Post:            toPostVM(post, actor),
		AuthorPostCount: n,
	})
}

// loadPost resolves {id}. On failure it has already written the 404 or 500
// response and returns false.
func (h *Handler) loadPost(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Post, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		uierrors.RenderNotFound(h.Render, w, r, "Post not found.", "/")
		return models.Post{}, false
	}

	post, err := h.Posts.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		uierrors.RenderNotFound(h.Render, w, r, "Post not found.", "/")
		return models.Post{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get post", err, "Could not load the post.", "/")
		return models.Post{}, false
	}
	return post, true
}
