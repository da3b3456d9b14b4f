package utils

import "math"

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Pagination holds list response metadata
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

// Normalize clamps page and pageSize to sane bounds and returns the SQL
// limit and offset. Page is 1-based.
func Normalize(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return pageSize, (page - 1) * pageSize
}

// NewPagination generates response metadata from the request parameters
// and the total row count
func NewPagination(page, pageSize int, totalCount int64) *Pagination {
	limit, _ := Normalize(page, pageSize)
	if page < 1 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(totalCount) / float64(limit)))
	if totalPages < 1 {
		totalPages = 1
	}
	return &Pagination{
		Page:       page,
		PageSize:   limit,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
