package shared

import "math"

// MaxPageSize bounds a single listing page.
const MaxPageSize = 100

// DefaultPageSize applies when the client omits a page size.
const DefaultPageSize = 20

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// NormalizePage clamps page and pageSize into their allowed ranges.
// Pages are 1-indexed.
func NormalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// NewPagination computes pagination metadata.
func NewPagination(page, pageSize, total int) Pagination {
	page, pageSize = NormalizePage(page, pageSize)
	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	return Pagination{Total: total, Page: page, PageSize: pageSize, TotalPages: totalPages}
}
