package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// pageParams is the parsed page/limit query pair.
type pageParams struct {
	page   int
	limit  int
	offset int
}

// paginationParams parses ?page= and ?limit=, clamping limit to
// [1, maxPageLimit] and page to >= 1.
func paginationParams(r *http.Request) (pageParams, error) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		return pageParams{}, err
	}
	if page < 1 {
		page = 1
	}
	limit, err := queryInt(r, "limit", defaultPageLimit)
	if err != nil {
		return pageParams{}, err
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return pageParams{page: page, limit: limit, offset: (page - 1) * limit}, nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return v, nil
}

// pageMeta is the metadata block attached to every paginated response.
type pageMeta struct {
	TotalItems   int  `json:"totalItems"`
	TotalPages   int  `json:"totalPages"`
	CurrentPage  int  `json:"currentPage"`
	ItemsPerPage int  `json:"itemsPerPage"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

func newPageMeta(total int, p pageParams) pageMeta {
	totalPages := (total + p.limit - 1) / p.limit
	return pageMeta{
		TotalItems:   total,
		TotalPages:   totalPages,
		CurrentPage:  p.page,
		ItemsPerPage: p.limit,
		HasNextPage:  p.page < totalPages,
		HasPrevPage:  p.page > 1,
	}
}
