package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the page size used when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Page carries limit/offset inputs for list queries.
type Page struct {
	Limit  int
	Offset int
}

// Default returns the standard first page.
func Default() Page {
	return Page{Limit: DefaultLimit}
}

// Normalize clamps the limit into the allowed range and floors negative offsets.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// FromRequest reads limit and offset query parameters. Missing or malformed
// values fall back to defaults rather than erroring.
func FromRequest(r *http.Request) Page {
	page := Default()
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			page.Limit = v
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			page.Offset = v
		}
	}
	return page.Normalize()
}
