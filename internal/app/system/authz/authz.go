// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/yatube/internal/app/system/auth"
)

// UserCtx returns the signed-in user's username, display name, id and a
// found flag. With no user it returns "", "", 0, false.
func UserCtx(r *http.Request) (username, name string, userID int64, ok bool) {
	u, ok := auth.CurrentUser(r)
	if !ok || u.ID == 0 {
		return "", "", 0, false
	}
	return u.Username, u.DisplayName(), u.ID, true
}

// IsUser reports whether the signed-in user has the given id.
func IsUser(r *http.Request, id int64) bool {
	_, _, uid, ok := UserCtx(r)
	return ok && uid == id
}
