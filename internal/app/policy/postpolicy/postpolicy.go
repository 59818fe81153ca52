// Package postpolicy decides who may change a post.
package postpolicy

import (
	"github.com/dalemusser/yatube/internal/app/system/auth"
	"github.com/dalemusser/yatube/internal/domain/models"
)

// CanEdit reports whether actor authored post. Anonymous actors never can.
func CanEdit(actor *auth.SessionUser, post models.Post) bool {
	return actor != nil && actor.ID != 0 && actor.ID == post.AuthorID
}
