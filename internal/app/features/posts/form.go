// internal/app/features/posts/form.go
package posts

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	uierrors "github.com/dalemusser/yatube/internal/app/features/errors"
	"github.com/dalemusser/yatube/internal/app/policy/postpolicy"
	"github.com/dalemusser/yatube/internal/app/store"
	"github.com/dalemusser/yatube/internal/app/system/auth"
	"github.com/dalemusser/yatube/internal/app/system/formutil"
	"github.com/dalemusser/yatube/internal/app/system/limits"
	"github.com/dalemusser/yatube/internal/app/system/postform"
	"github.com/dalemusser/yatube/internal/app/system/timeouts"
	"github.com/dalemusser/yatube/internal/domain/models"
	"go.uber.org/zap"
)

const createPath = "/create"

func detailPath(id int64) string  { return "/posts/" + strconv.FormatInt(id, 10) }
func editPath(id int64) string    { return detailPath(id) + "/edit" }
func profilePath(u string) string { return "/profile/" + url.PathEscape(u) }

/*─────────────────────────────────────────────────────────────────────────────*
| GET /create                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeCreate renders an empty post form.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	groups, err := h.Groups.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list groups", err, "Could not load the form.", "/")
		return
	}
	h.renderForm(w, r, newFormData(r, groups, postform.Result{}, 0))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /create                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleCreate validates and stores a new post authored by the caller.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, auth.LoginURL(createPath), http.StatusSeeOther)
		return
	}
	limits.LimitBody(w, r, limits.MaxPostFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse post form", err, "Invalid form data.", createPath)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	groups, err := h.Groups.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list groups", err, "Could not save the post.", "/")
		return
	}

	res := postform.Validate(rawForm(r), groups)
	if !res.Valid() {
		h.renderForm(w, r, newFormData(r, groups, res, 0))
		return
	}

	post, err := h.Posts.Create(ctx, models.Post{
		Text:     res.Clean.Text,
		GroupID:  res.Clean.GroupID,
		AuthorID: actor.ID,
	})
	if errors.Is(err, store.ErrInvalidReference) {
		// The group was deleted after the choices were loaded.
		res.Errors = map[string][]string{postform.FieldGroup: {postform.MsgInvalidChoice}}
		h.renderForm(w, r, newFormData(r, groups, res, 0))
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create post", err, "Could not save the post.", "/")
		return
	}

	h.Log.Info("post created",
		zap.Int64("post_id", post.ID),
		zap.Int64("author_id", actor.ID))
	http.Redirect(w, r, profilePath(actor.Username), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /posts/{id}/edit                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeEdit renders the form pre-filled with the post. Only the author may edit.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	post, ok := h.loadEditable(ctx, w, r)
	if !ok {
		return
	}

	groups, err := h.Groups.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list groups", err, "Could not load the form.", detailPath(post.ID))
		return
	}
	h.renderForm(w, r, newFormData(r, groups, postform.Result{Raw: postform.FromPost(post)}, post.ID))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /posts/{id}/edit                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleEdit updates text and group of the caller's own post.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	post, ok := h.loadEditable(ctx, w, r)
	if !ok {
		return
	}
	limits.LimitBody(w, r, limits.MaxPostFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse post form", err, "Invalid form data.", editPath(post.ID))
		return
	}

	groups, err := h.Groups.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list groups", err, "Could not save the post.", detailPath(post.ID))
		return
	}

	res := postform.Validate(rawForm(r), groups)
	if !res.Valid() {
		h.renderForm(w, r, newFormData(r, groups, res, post.ID))
		return
	}

	err = h.Posts.Update(ctx, post.ID, res.Clean.Text, res.Clean.GroupID)
	switch {
	case errors.Is(err, store.ErrInvalidReference):
		res.Errors = map[string][]string{postform.FieldGroup: {postform.MsgInvalidChoice}}
		h.renderForm(w, r, newFormData(r, groups, res, post.ID))
		return
	case errors.Is(err, store.ErrNotFound):
		uierrors.RenderNotFound(h.Render, w, r, "Post not found.", "/")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "update post", err, "Could not save the post.", detailPath(post.ID))
		return
	}

	h.Log.Info("post updated", zap.Int64("post_id", post.ID))
	http.Redirect(w, r, detailPath(post.ID), http.StatusSeeOther)
}

// loadEditable resolves {id} and enforces authorship. On failure it has
// already written the response and returns false.
func (h *Handler) loadEditable(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Post, bool) {
	actor, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, auth.LoginURL(r.URL.RequestURI()), http.StatusSeeOther)
		return models.Post{}, false
	}

	post, ok := h.loadPost(ctx, w, r)
	if !ok {
		return models.Post{}, false
	}
	if !postpolicy.CanEdit(actor, post) {
		h.Log.Info("edit denied",
			zap.Int64("post_id", post.ID),
			zap.Int64("user_id", actor.ID))
		uierrors.RenderForbidden(h.Render, w, r, "Only the author can edit this post.", detailPath(post.ID))
		return models.Post{}, false
	}
	return post, true
}

func rawForm(r *http.Request) postform.Raw {
	return postform.Raw{
		Text:  r.PostFormValue(postform.FieldText),
		Group: r.PostFormValue(postform.FieldGroup),
	}
}

func newFormData(r *http.Request, groups []models.Group, res postform.Result, postID int64) FormData {
	data := FormData{
		IsEdit: postID != 0,
		PostID: postID,
		Action: createPath,
		Text:   res.Raw.Text,
		Group:  res.Raw.Group,
		Groups: groupOptions(groups, res.Raw.Group),
	}
	title, back := "New post", "/"
	if data.IsEdit {
		title, back = "Edit post", detailPath(postID)
		data.Action = editPath(postID)
	}
	formutil.SetBase(&data.Base, r, title, back)
	for field, msgs := range res.Errors {
		for _, m := range msgs {
			data.AddFieldError(field, m)
		}
	}
	return data
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, data FormData) {
	h.Render(w, r, http.StatusOK, ViewForm, data)
}
