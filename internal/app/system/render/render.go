// Package render is the seam between handlers and the template engine.
// Handlers take a Func so they can set the HTTP status and so tests can
// capture the view name and data without booting templates.
package render

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
)

// Func renders view with data, writing status first when it is not 200.
type Func func(w http.ResponseWriter, r *http.Request, status int, view string, data any)

// HTML renders through the booted waffle template engine.
func HTML(w http.ResponseWriter, r *http.Request, status int, view string, data any) {
	if status != 0 && status != http.StatusOK {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
	}
	templates.Render(w, r, view, data)
}

// OrHTML returns f, or HTML when f is nil.
func OrHTML(f Func) Func {
	if f == nil {
		return HTML
	}
	return f
}
