// internal/app/features/posts/types.go
package posts

import (
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/yatube/internal/app/policy/postpolicy"
	"github.com/dalemusser/yatube/internal/app/system/auth"
	"github.com/dalemusser/yatube/internal/app/system/formutil"
	"github.com/dalemusser/yatube/internal/app/system/htmlsanitize"
	"github.com/dalemusser/yatube/internal/app/system/paging"
	"github.com/dalemusser/yatube/internal/app/system/viewdata"
	"github.com/dalemusser/yatube/internal/domain/models"
)

// View names.
const (
	ViewIndex     = "posts_index"
	ViewGroupList = "posts_group_list"
	ViewProfile   = "posts_profile"
	ViewDetail    = "posts_detail"
	ViewForm      = "posts_form"
)

// PostVM is one post as the templates see it.
type PostVM struct {
	ID       int64
	Title    string // first 15 characters
	Text     string
	TextHTML template.HTML
	PubDate  time.Time

	AuthorUsername string
	AuthorName     string

	HasGroup   bool
	GroupTitle string
	GroupSlug  string

	CanEdit bool
}

// GroupVM is the group header on a group listing.
type GroupVM struct {
	ID          int64
	Title       string
	Slug        string
	Description template.HTML
}

// AuthorVM is the author header on a profile listing.
type AuthorVM struct {
	ID       int64
	Username string
	Name     string
}

// ListData backs the three paginated listings.
type ListData struct {
	viewdata.BaseVM
	Posts     []PostVM
	Page      paging.Page
	PageLinks []int
	Group     *GroupVM  // group listing only
	Author    *AuthorVM // profile listing only
	PostCount int64     // profile listing only
}

// DetailData backs the single-post page.
type DetailData struct {
	viewdata.BaseVM
	Post            PostVM
	AuthorPostCount int64
}

// GroupOption is one entry in the form's group select.
type GroupOption struct {
	ID       int64
	Value    string
	Title    string
	Selected bool
}

// FormData backs the create and edit form.
type FormData struct {
	formutil.Base
	IsEdit bool
	PostID int64
	Action string
	Text   string
	Group  string
	Groups []GroupOption
}

// pageLinkRadius is how many numbered links are shown either side of the
// current page.
const pageLinkRadius = 3

func toPostVM(p models.Post, actor *auth.SessionUser) PostVM {
	vm := PostVM{
		ID:       p.ID,
		Title:    p.String(),
		Text:     p.Text,
		TextHTML: template.HTML(htmlsanitize.PlainTextToHTML(p.Text)),
		PubDate:  p.PubDate,
		CanEdit:  postpolicy.CanEdit(actor, p),
	}
	if p.Author != nil {
		vm.AuthorUsername = p.Author.Username
		vm.AuthorName = p.Author.DisplayName()
	}
	if p.Group != nil {
		vm.HasGroup = true
		vm.GroupTitle = p.Group.Title
		vm.GroupSlug = p.Group.Slug
	}
	return vm
}

func toPostVMs(ps []models.Post, r *http.Request) []PostVM {
	actor, _ := auth.CurrentUser(r)
	out := make([]PostVM, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPostVM(p, actor))
	}
	return out
}

func groupOptions(groups []models.Group, selected string) []GroupOption {
	out := make([]GroupOption, 0, len(groups))
	for _, g := range groups {
		v := strconv.FormatInt(g.ID, 10)
		out = append(out, GroupOption{ID: g.ID, Value: v, Title: g.String(), Selected: v == selected})
	}
	return out
}
