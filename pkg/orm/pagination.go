// Package orm carries small GORM helpers shared by the repositories.
package orm

import "gorm.io/gorm"

// Pagination describes one page of a listing result.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPagination computes page metadata for a total row count.
func NewPagination(page, perPage int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}

	pages := int(total) / perPage
	if int(total)%perPage != 0 {
		pages++
	}

	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: pages}
}

// Paginate is a GORM scope applying OFFSET/LIMIT for the given page.
//
//	db.Scopes(orm.Paginate(page, perPage)).Find(&products)
func Paginate(page, perPage int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if perPage < 1 {
			perPage = 1
		}
		return db.Offset((page - 1) * perPage).Limit(perPage)
	}
}
