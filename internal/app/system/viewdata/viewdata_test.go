package viewdata_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/yatube/internal/app/system/auth"
	"github.com/dalemusser/yatube/internal/app/system/viewdata"
)

func TestNewBaseVM_Anonymous(t *testing.T) {
	vm := viewdata.NewBaseVM(httptest.NewRequest("GET", "/group/cats", nil), "Cats", "/")

	if vm.IsLoggedIn || vm.UserID != 0 {
		t.Errorf("expected anonymous vm, got %+v", vm)
	}
	if vm.Title != "Cats" || vm.SiteName != viewdata.SiteName {
		t.Errorf("unexpected title/site %q %q", vm.Title, vm.SiteName)
	}
	if vm.CSRFToken != "" {
		t.Errorf("expected no CSRF token without middleware, got %q", vm.CSRFToken)
	}
}

func TestNewBaseVM_SignedIn(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: 3, Username: "leo", Name: "Leo"})
	vm := viewdata.NewBaseVM(req, "Home", "/")

	if !vm.IsLoggedIn || vm.UserID != 3 || vm.Username != "leo" || vm.UserName != "Leo" {
		t.Errorf("unexpected vm %+v", vm)
	}
}
