// internal/domain/models/group.go
package models

import (
	"time"
)

// GroupTitleMaxLen bounds Group.Title.
const GroupTitleMaxLen = 200

// Group is a category posts can be filed under.
//
// NOTE:
//   - Posts reference groups by id. Deleting a group clears group_id on
//     its posts; the posts themselves survive.
//   - Slug is unique and is what public URLs use (/group/{slug}).
type Group struct {
	ID          int64  `bson:"_id" json:"id"`
	Title       string `bson:"title" json:"title"`
	Slug        string `bson:"slug" json:"slug"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func (g Group) String() string {
	return g.Title
}
