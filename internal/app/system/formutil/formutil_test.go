package formutil

import (
	"net/http/httptest"
	"testing"
)

func TestBase_Errors(t *testing.T) {
	var b Base
	SetBase(&b, httptest.NewRequest("GET", "/signup", nil), "Sign up", "/")

	if b.HasErrors() {
		t.Fatal("fresh Base should have no errors")
	}
	if b.Title != "Sign up" {
		t.Errorf("Title = %q", b.Title)
	}

	b.AddFieldError("username", "This field is required.")
	b.AddFieldError("username", "second")
	if !b.HasErrors() || len(b.FieldErrors["username"]) != 2 {
		t.Errorf("unexpected field errors %v", b.FieldErrors)
	}

	b.SetError("<b>bad</b>")
	if b.Error != "&lt;b&gt;bad&lt;/b&gt;" {
		t.Errorf("SetError should escape, got %q", b.Error)
	}
}
