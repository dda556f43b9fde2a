package pagination

import (
	"fmt"
	"net/http"
	"strconv"
)

// Params are the page and limit a client asked for. Page is 1-based.
type Params struct {
	Page  int
	Limit int
}

// ParseQueryParams reads the page and limit query parameters, applying the
// configured defaults for missing values. Values that are present but out of
// range are an error rather than silently clamped, so clients learn about
// their mistake.
func ParseQueryParams(r *http.Request, config Config) (Params, error) {
	params := Params{
		Page:  config.DefaultPage,
		Limit: config.DefaultLimit,
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return params, fmt.Errorf("invalid query parameter: page must be a positive integer")
		}
		params.Page = page
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > config.MaxLimit {
			return params, fmt.Errorf("invalid query parameter: limit must be between 1 and %d", config.MaxLimit)
		}
		params.Limit = limit
	}

	return params, nil
}
