package httpx

import (
	"net/http"
	"strconv"
)

// parseIntQuery parses an integer query parameter, returning def when the
// parameter is absent or malformed.
func parseIntQuery(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// parseInt64Query parses an int64 query parameter, returning def when the
// parameter is absent or malformed.
func parseInt64Query(r *http.Request, name string, def int64) int64 {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}
