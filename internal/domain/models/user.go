// internal/domain/models/user.go
package models

import (
	"time"
)

// User is an author account.
//
// Username is what appears in profile URLs and is matched exactly there.
// UsernameCI is the folded form (lowercase, diacritics stripped) used for
// login lookups and the uniqueness index.
type User struct {
	ID           int64  `bson:"_id" json:"id"`
	Username     string `bson:"username" json:"username"`
	UsernameCI   string `bson:"username_ci" json:"-"`
	FullName     string `bson:"full_name,omitempty" json:"full_name,omitempty"`
	PasswordHash string `bson:"password_hash" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// DisplayName returns the full name when set, else the username.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
