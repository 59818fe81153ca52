// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/yatube/internal/app/system/normalize"
	"github.com/dalemusser/waffle/pantry/pagination"
	"github.com/dalemusser/waffle/pantry/query"
)

// PostsPerPage is the number of posts shown on every listing page.
const PostsPerPage = 10

// Param is the query parameter carrying the 1-based page number.
const Param = "page"

// Page is one resolved page of a collection.
type Page struct {
	Number   int // 1-based, always within [1, NumPages]
	NumPages int // at least 1, even for an empty collection
	Count    int // total items in the collection

	// Offset and Limit select this page's items from the ordered collection.
	Offset int
	Limit  int

	HasPrev    bool
	HasNext    bool
	PrevNumber int
	NextNumber int

	// 1-based positions of the first and last item on the page; 0 when empty.
	StartIndex int
	EndIndex   int
}

// Paginate resolves a raw page value against count items split into pages
// of pageSize.
//
//   - absent or non-numeric raw: page 1
//   - raw above the last page, or below 1: the last page
//   - count 0: a single empty page
func Paginate(count, pageSize int, raw string) Page {
	if pageSize < 1 {
		pageSize = PostsPerPage
	}
	count = max(count, 0)

	// Built as a literal: pagination.New caps PerPage at its MaxPerPage.
	wp := pagination.Page{Page: 1, PerPage: pageSize}
	wp.SetTotal(count)
	numPages := max(wp.TotalPages, 1)

	// pagination's own parsing maps negatives to page 1; here they go last.
	if n, err := strconv.Atoi(normalize.QueryParam(raw)); err == nil {
		wp.Page = n
		if n < 1 || n > numPages {
			wp.Page = numPages
		}
	}

	p := Page{
		Number:   wp.Page,
		NumPages: numPages,
		Count:    count,
		Offset:   wp.Offset(),
		Limit:    wp.Limit(),
		HasPrev:  wp.HasPrev(),
		HasNext:  wp.HasNext(),
	}
	if p.HasPrev {
		p.PrevNumber = wp.Prev()
	}
	if p.HasNext {
		p.NextNumber = wp.Next()
	}
	if shown := min(pageSize, count-p.Offset); shown > 0 {
		p.StartIndex = p.Offset + 1
		p.EndIndex = p.Offset + shown
	}
	return p
}

// Len is the number of items on the page.
func (p Page) Len() int {
	if p.StartIndex == 0 {
		return 0
	}
	return p.EndIndex - p.StartIndex + 1
}

// Window returns up to 2*radius+1 page numbers centred on the current page,
// for rendering numbered links.
func (p Page) Window(radius int) []int {
	lo := max(1, p.Number-radius)
	hi := min(p.NumPages, p.Number+radius)
	out := make([]int, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		out = append(out, n)
	}
	return out
}

// Slice applies Paginate to an in-memory ordered sequence and returns the
// items on the resolved page.
func Slice[T any](items []T, pageSize int, raw string) ([]T, Page) {
	p := Paginate(len(items), pageSize, raw)
	if p.Len() == 0 {
		return []T{}, p
	}
	return items[p.StartIndex-1 : p.EndIndex], p
}

// ParsePage returns the raw page query value.
func ParsePage(r *http.Request) string {
	return query.Get(r, Param)
}
