// AngelaMos | 2026
// page.go

package core

import (
	"net/http"
	"strconv"
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// PageFrom reads ?page and ?page_size, falling back to page 1 and defaultSize
// and clamping the size to maxSize.
func PageFrom(r *http.Request, defaultSize, maxSize int) Page {
	q := r.URL.Query()
	p := Page{
		Number: atoiOr(q.Get("page"), 1),
		Size:   atoiOr(q.Get("page_size"), defaultSize),
	}
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = defaultSize
	}
	if p.Size > maxSize {
		p.Size = maxSize
	}
	return p
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
