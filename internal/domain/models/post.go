// internal/domain/models/post.go
package models

import (
	"time"
)

// postPreviewLen is how many characters String() keeps.
const postPreviewLen = 15

// Post is a single text entry written by one author.
//
// PubDate is set by the store at creation and never changes. AuthorID is
// required; GroupID is optional.
//
// Author and Group are populated by store reads (never persisted on the
// post document itself).
type Post struct {
	ID       int64     `bson:"_id" json:"id"`
	Text     string    `bson:"text" json:"text"`
	PubDate  time.Time `bson:"pub_date" json:"pub_date"`
	AuthorID int64     `bson:"author_id" json:"author_id"`
	GroupID  *int64    `bson:"group_id" json:"group_id"`

	Author *User  `bson:"-" json:"author,omitempty"`
	Group  *Group `bson:"-" json:"group,omitempty"`
}

func (p Post) String() string {
	r := []rune(p.Text)
	if len(r) > postPreviewLen {
		return string(r[:postPreviewLen])
	}
	return p.Text
}

// InGroup reports whether the post is filed under the given group.
func (p Post) InGroup(groupID int64) bool {
	return p.GroupID != nil && *p.GroupID == groupID
}
