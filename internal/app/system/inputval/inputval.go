// Package inputval validates form structs with go-playground/validator and
// turns failures into user-facing messages.
//
// Tag a struct's fields with `validate:"..."` rules and an optional
// `label:"..."` used in messages:
//
//	type input struct {
//	    Title string `validate:"required,max=200" label:"Title"`
//	    Slug  string `validate:"required,slug" label:"Slug"`
//	}
//
//	if res := inputval.Validate(in); res.HasErrors() {
//	    data.SetError(res.First())
//	}
package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string // Go struct field name
	Label   string // label tag, or the field name
	Tag     string // failed rule, e.g. "required"
	Param   string // rule parameter, e.g. "200" for max=200
	Message string
}

// Result collects every failed rule in field order.
type Result struct {
	Errors []FieldError
}

func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All returns every message.
func (r Result) All() []string {
	out := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e.Message
	}
	return out
}

// For returns the errors for one struct field.
func (r Result) For(field string) []FieldError {
	var out []FieldError
	for _, e := range r.Errors {
		if e.Field == field {
			out = append(out, e)
		}
	}
	return out
}

// PasswordMaxBytes is bcrypt's input limit. It is in bytes, so a multibyte
// password reaches it before max=72 would.
const PasswordMaxBytes = 72

var (
	once sync.Once
	v    *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			return f.Name
		})
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return IsValidSlug(fl.Field().String())
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return IsValidUsername(fl.Field().String())
		})
		_ = v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
			return len(fl.Field().String()) <= PasswordMaxBytes
		})
	})
	return v
}

// Validate runs the struct's validate tags. A non-struct argument is a
// programming error and panics.
func Validate(s any) Result {
	err := get().Struct(s)
	if err == nil {
		return Result{}
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		panic(fmt.Sprintf("inputval: %v", err))
	}
	res := Result{Errors: make([]FieldError, 0, len(ves))}
	for _, fe := range ves {
		res.Errors = append(res.Errors, FieldError{
			Field:   fe.StructField(),
			Label:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: message(fe),
		})
	}
	return res
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "eqfield":
		return label + " does not match."
	case "slug":
		return label + " may contain only letters, numbers, hyphens and underscores."
	case "username":
		return label + " may contain only letters, numbers, and @/./+/-/_ characters."
	case "bcryptlen":
		return fmt.Sprintf("%s is too long (at most %d bytes).", label, PasswordMaxBytes)
	default:
		return label + " is invalid."
	}
}

var (
	slugRE     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernameRE = regexp.MustCompile(`^[\w.@+-]+$`)
)

// IsValidSlug reports whether s is a URL-safe slug.
func IsValidSlug(s string) bool {
	return slugRE.MatchString(strings.TrimSpace(s))
}

// IsValidUsername reports whether s uses only letters, digits and @.+-_.
func IsValidUsername(s string) bool {
	return usernameRE.MatchString(strings.TrimSpace(s))
}
