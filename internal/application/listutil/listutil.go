// Package listutil parses the paging, sorting and search query parameters
// shared by the listing endpoints.
package listutil

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultPageSize is the rows-per-page default for listing endpoints. Club
// rosters rarely exceed a few dozen rows, so pages stay small.
const DefaultPageSize = 25

// pageSizes are the accepted per_page values.
var pageSizes = []int{25, 50, 100}

// Page is a 1-indexed page request.
type Page struct {
	Number int
	Size   int
}

// Offset returns the SQL OFFSET for this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// ParsePage reads page and per_page. Out-of-range values fall back to the
// first page and the default size.
// POST: Number >= 1 and Size is one of the accepted sizes
func ParsePage(q url.Values) Page {
	number, _ := strconv.Atoi(q.Get("page"))
	if number < 1 {
		number = 1
	}
	size, _ := strconv.Atoi(q.Get("per_page"))
	if !validPageSize(size) {
		size = DefaultPageSize
	}
	return Page{Number: number, Size: size}
}

// Sort is a validated ordering request.
type Sort struct {
	Column     string
	Descending bool
}

// ParseSort reads sort and dir. A column outside the allowed set falls back
// to the given default; any dir other than "desc" means ascending.
// PRE: fallback is itself an allowed column
// POST: Column is fallback or one of allowed
func ParseSort(q url.Values, fallback string, allowed ...string) Sort {
	column := q.Get("sort")
	ok := false
	for _, a := range allowed {
		if column == a {
			ok = true
			break
		}
	}
	if !ok {
		column = fallback
	}
	return Sort{Column: column, Descending: q.Get("dir") == "desc"}
}

// ParseSearch reads the free-text search box value, trimmed.
func ParseSearch(q url.Values) string {
	return strings.TrimSpace(q.Get("q"))
}

func validPageSize(n int) bool {
	for _, s := range pageSizes {
		if n == s {
			return true
		}
	}
	return false
}
