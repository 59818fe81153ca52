// Package postform validates the create/edit post form. It is pure: the
// caller supplies the group choices and persists the result.
package postform

import (
	"strconv"

	"github.com/dalemusser/yatube/internal/app/system/inputval"
	"github.com/dalemusser/yatube/internal/app/system/normalize"
	"github.com/dalemusser/yatube/internal/domain/models"
)

// Form field names.
const (
	FieldText  = "text"
	FieldGroup = "group"
)

const (
	MsgRequired      = "This field is required."
	MsgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
)

// Raw is the submitted form. Group is the selected group id, or "" for none.
type Raw struct {
	Text  string
	Group string
}

// Clean is a validated submission.
type Clean struct {
	Text    string
	GroupID *int64
}

// Result is the outcome of Validate. Raw is echoed back for re-rendering.
type Result struct {
	Raw    Raw
	Clean  Clean
	Errors map[string][]string
}

// Valid reports whether no field failed.
func (r Result) Valid() bool { return len(r.Errors) == 0 }

func (r *Result) add(field, msg string) {
	if r.Errors == nil {
		r.Errors = make(map[string][]string)
	}
	r.Errors[field] = append(r.Errors[field], msg)
}

type textInput struct {
	Text string `validate:"required" label:"Text"`
}

// Validate checks raw against the available group choices.
func Validate(raw Raw, choices []models.Group) Result {
	res := Result{Raw: raw}

	text := normalize.Text(raw.Text)
	for _, fe := range inputval.Validate(textInput{Text: text}).For("Text") {
		if fe.Tag == "required" {
			res.add(FieldText, MsgRequired)
		} else {
			res.add(FieldText, fe.Message)
		}
	}
	res.Clean.Text = text

	if g := normalize.QueryParam(raw.Group); g != "" {
		id, err := strconv.ParseInt(g, 10, 64)
		if err != nil || !contains(choices, id) {
			res.add(FieldGroup, MsgInvalidChoice)
		} else {
			res.Clean.GroupID = &id
		}
	}

	if !res.Valid() {
		res.Clean = Clean{}
	}
	return res
}

// FromPost pre-fills a form from an existing post.
func FromPost(p models.Post) Raw {
	raw := Raw{Text: p.Text}
	if p.GroupID != nil {
		raw.Group = strconv.FormatInt(*p.GroupID, 10)
	}
	return raw
}

func contains(groups []models.Group, id int64) bool {
	for _, g := range groups {
		if g.ID == id {
			return true
		}
	}
	return false
}
