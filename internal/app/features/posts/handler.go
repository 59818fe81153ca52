// internal/app/features/posts/handler.go
package posts

import (
	uierrors "github.com/dalemusser/yatube/internal/app/features/errors"
	"github.com/dalemusser/yatube/internal/app/store"
	"github.com/dalemusser/yatube/internal/app/system/paging"
	"github.com/dalemusser/yatube/internal/app/system/render"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the posts feature: the
// three listings, the detail page and the create/edit form.
type Handler struct {
	Posts  store.Posts
	Groups store.Groups
	Users  store.Users

	PerPage int
	Render  render.Func
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

// NewHandler constructs a posts Handler over a store backend. perPage < 1
// falls back to paging.PostsPerPage.
func NewHandler(backend store.Backend, perPage int, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if perPage < 1 {
		perPage = paging.PostsPerPage
	}
	return &Handler{
		Posts:   backend.Posts(),
		Groups:  backend.Groups(),
		Users:   backend.Users(),
		PerPage: perPage,
		Render:  render.HTML,
		ErrLog:  errLog,
		Log:     logger,
	}
}
