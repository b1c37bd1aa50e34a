package utils

import (
	"strconv"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Pagination holds the page window parsed from query params.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// ParsePagination reads page/page_size with sane bounds.
func ParsePagination(pageRaw, sizeRaw string) Pagination {
	page, err := strconv.Atoi(pageRaw)
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(sizeRaw)
	if err != nil || size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return Pagination{Page: page, PageSize: size}
}

// Apply scopes a query to the page window.
func (p Pagination) Apply(query *gorm.DB) *gorm.DB {
	return query.Offset((p.Page - 1) * p.PageSize).Limit(p.PageSize)
}
