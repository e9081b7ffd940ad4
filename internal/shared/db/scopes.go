// Package db provides gorm query scopes and transaction lookup for repositories.
package db

import (
	"strings"

	"gorm.io/gorm"
)

// Paginate limits a query to one page. A non-positive pageSize leaves the query unbounded.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if page < 1 {
			page = 1
		}
		return db.Limit(pageSize).Offset((page - 1) * pageSize)
	}
}

// OrderBy orders by sortBy when it is in allowed, otherwise by fallback.
// sortOrder is ASC or DESC, anything else is DESC.
//
// Example usage:
//
//	tx.Scopes(db.OrderBy(filter.SortBy, filter.SortOrder, allowed, "created_at DESC"))
func OrderBy(sortBy, sortOrder string, allowed map[string]bool, fallback string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		field := strings.ToLower(sortBy)
		if field == "" || !allowed[field] {
			return db.Order(fallback)
		}
		order := strings.ToUpper(sortOrder)
		if order != "ASC" && order != "DESC" {
			order = "DESC"
		}
		return db.Order(field + " " + order)
	}
}
