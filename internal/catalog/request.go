package catalog

import "strconv"

// PageRequest is the immutable input of one render: the request path plus its query
// parameters, first value per key.
type PageRequest struct {
	Path  string
	Query map[string]string
}

// Param returns the query parameter key, or "" when absent.
func (r PageRequest) Param(key string) string {
	return r.Query[key]
}

// PageNumber returns the 1-based "page" parameter, defaulting to 1 for missing or invalid
// values.
func (r PageRequest) PageNumber() int {
	n, err := strconv.Atoi(r.Param("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
