package postform

import (
	"reflect"
	"testing"

	"github.com/dalemusser/yatube/internal/domain/models"
)

var choices = []models.Group{
	{ID: 1, Title: "Cats", Slug: "cats"},
	{ID: 2, Title: "Dogs", Slug: "dogs"},
}

func ptr(v int64) *int64 { return &v }

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		raw       Raw
		wantClean Clean
		wantErrs  map[string][]string
	}{
		{
			name:      "text only",
			raw:       Raw{Text: "Hello"},
			wantClean: Clean{Text: "Hello"},
		},
		{
			name:      "text trimmed",
			raw:       Raw{Text: "  Hello world \n"},
			wantClean: Clean{Text: "Hello world"},
		},
		{
			name:      "with group",
			raw:       Raw{Text: "Hello", Group: "2"},
			wantClean: Clean{Text: "Hello", GroupID: ptr(2)},
		},
		{
			name:     "empty text",
			raw:      Raw{Text: ""},
			wantErrs: map[string][]string{FieldText: {MsgRequired}},
		},
		{
			name:     "whitespace text",
			raw:      Raw{Text: "   \n\t"},
			wantErrs: map[string][]string{FieldText: {MsgRequired}},
		},
		{
			name:     "unknown group",
			raw:      Raw{Text: "Hello", Group: "99"},
			wantErrs: map[string][]string{FieldGroup: {MsgInvalidChoice}},
		},
		{
			name:     "non-numeric group",
			raw:      Raw{Text: "Hello", Group: "cats"},
			wantErrs: map[string][]string{FieldGroup: {MsgInvalidChoice}},
		},
		{
			name: "both invalid",
			raw:  Raw{Text: "", Group: "x"},
			wantErrs: map[string][]string{
				FieldText:  {MsgRequired},
				FieldGroup: {MsgInvalidChoice},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.raw, choices)

			if !reflect.DeepEqual(res.Errors, tt.wantErrs) {
				t.Errorf("Errors = %v, want %v", res.Errors, tt.wantErrs)
			}
			if res.Valid() != (tt.wantErrs == nil) {
				t.Errorf("Valid = %v", res.Valid())
			}
			if !reflect.DeepEqual(res.Clean, tt.wantClean) {
				t.Errorf("Clean = %+v, want %+v", res.Clean, tt.wantClean)
			}
			if res.Raw != tt.raw {
				t.Errorf("Raw not echoed: %+v", res.Raw)
			}
		})
	}
}

func TestValidate_NoChoices(t *testing.T) {
	res := Validate(Raw{Text: "Hi", Group: "1"}, nil)
	if res.Valid() {
		t.Error("group must be rejected when there are no choices")
	}
}

func TestFromPost(t *testing.T) {
	if got := FromPost(models.Post{Text: "a", GroupID: ptr(12)}); got != (Raw{Text: "a", Group: "12"}) {
		t.Errorf("FromPost = %+v", got)
	}
	if got := FromPost(models.Post{Text: "b"}); got != (Raw{Text: "b"}) {
		t.Errorf("FromPost without group = %+v", got)
	}
}
