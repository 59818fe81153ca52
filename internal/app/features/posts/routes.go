// internal/app/features/posts/routes.go
package posts

import (
	"github.com/dalemusser/yatube/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes serves the listings publicly and the form behind sign-in.
// Mount at "/".
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// LISTINGS
	r.Get("/", h.ServeIndex)
	r.Get("/group/{slug}", h.ServeGroupPosts)
	r.Get("/profile/{username}", h.ServeProfile)

	// DETAIL
	r.Get("/posts/{id}", h.ServeDetail)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// CREATE
		pr.Get("/create", h.ServeCreate)
		pr.Post("/create", h.HandleCreate)

		// EDIT
		pr.Get("/posts/{id}/edit", h.ServeEdit)
		pr.Post("/posts/{id}/edit", h.HandleEdit)
	})

	return r
}
