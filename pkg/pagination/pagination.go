package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page carries normalized limit/offset values for list queries.
type Page struct {
	Limit  int
	Offset int
}

// FromRequest reads limit/offset query params and clamps them to sane
// bounds. Missing or malformed values fall back to defaults.
func FromRequest(r *http.Request) Page {
	q := r.URL.Query()
	limit := parseIntDefault(q.Get("limit"), DefaultLimit)
	offset := parseIntDefault(q.Get("offset"), 0)
	return Normalize(limit, offset)
}

// Normalize clamps a raw limit/offset pair.
func Normalize(limit, offset int) Page {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Page{Limit: limit, Offset: offset}
}

func parseIntDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
