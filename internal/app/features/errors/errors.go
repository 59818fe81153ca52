// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/yatube/internal/app/system/render"
	"github.com/dalemusser/yatube/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/httpnav"
)

// View is the template every error page renders.
const View = "error_page"

// PageData is the view model for error pages.
type PageData struct {
	viewdata.BaseVM
	Status    int
	Message   string
	Reference string // error reference shown on 500 pages
}

// Handler serves the standalone error routes.
type Handler struct {
	Render render.Func
}

// NewHandler constructs an errors Handler.
func NewHandler(rf render.Func) *Handler {
	return &Handler{Render: render.OrHTML(rf)}
}

// NotFound is the router's 404 handler.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	RenderNotFound(h.Render, w, r, "", "")
}

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	RenderForbidden(h.Render, w, r, "", "")
}

// RenderNotFound shows a 404 page. Empty msg and backURL get defaults.
func RenderNotFound(rf render.Func, w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "The page you requested does not exist."
	}
	renderStatus(rf, w, r, http.StatusNotFound, "Page not found", msg, backURL, "")
}

// RenderForbidden shows a 403 page. Empty msg and backURL get defaults.
func RenderForbidden(rf render.Func, w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "You don't have permission to view this page."
	}
	renderStatus(rf, w, r, http.StatusForbidden, "Access denied", msg, backURL, "")
}

func renderStatus(rf render.Func, w http.ResponseWriter, r *http.Request, status int, title, msg, backURL, ref string) {
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}
	vm := viewdata.NewBaseVM(r, title, "/")
	vm.BackURL = backURL

	render.OrHTML(rf)(w, r, status, View, PageData{
		BaseVM:    vm,
		Status:    status,
		Message:   msg,
		Reference: ref,
	})
}
