package common

import (
	"net/url"
	"strconv"
	"strings"
)

// Pagination holds pagination metadata for list responses.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
}

// ParsePagination extracts page and limit from query values. Limits above
// maxPerPage are clamped; malformed values are rejected.
func ParsePagination(values url.Values, defaultPerPage, maxPerPage int) (page, perPage int, err error) {
	page = 1
	perPage = defaultPerPage
	if v := strings.TrimSpace(values.Get("page")); v != "" {
		p, convErr := strconv.Atoi(v)
		if convErr != nil || p < 1 {
			return 0, 0, BadRequest("page", "page must be a positive integer", convErr)
		}
		page = p
	}
	if v := strings.TrimSpace(values.Get("limit")); v != "" {
		l, convErr := strconv.Atoi(v)
		if convErr != nil || l < 1 {
			return 0, 0, BadRequest("limit", "limit must be a positive integer", convErr)
		}
		perPage = l
	}
	if maxPerPage > 0 && perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage, nil
}
