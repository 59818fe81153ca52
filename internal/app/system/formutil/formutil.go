// Package formutil provides helpers for form re-rendering with validation errors.
//
// When a form submission fails validation, the form should be re-rendered with:
// - The user's previously entered values (echoed back)
// - Error messages per field
// - All the context data needed for the form (dropdowns, etc.)
//
// Example usage:
//
//	type signupData struct {
//		formutil.Base
//		Username string
//	}
//
//	data := signupData{Username: raw}
//	formutil.SetBase(&data.Base, r, "Sign up", "/")
//	data.AddFieldError("username", "This field is required.")
package formutil

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/yatube/internal/app/system/viewdata"
)

// Base contains common fields for form pages that can be embedded in form data structs.
type Base struct {
	viewdata.BaseVM
	Error       template.HTML
	FieldErrors map[string][]string
}

// SetBase populates the common Base fields from the request context.
func SetBase(b *Base, r *http.Request, title, backDefault string) {
	b.BaseVM = viewdata.NewBaseVM(r, title, backDefault)
}

// SetError sets the form-level error message.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}

// AddFieldError records a message against a named field.
func (b *Base) AddFieldError(field, msg string) {
	if b.FieldErrors == nil {
		b.FieldErrors = make(map[string][]string)
	}
	b.FieldErrors[field] = append(b.FieldErrors[field], msg)
}

// HasErrors reports whether any form or field error is set.
func (b *Base) HasErrors() bool {
	return b.Error != "" || len(b.FieldErrors) > 0
}
