package service

import (
	"fmt"
	"strings"

	"github.com/orgdesa/orgdesa/internal/models"
	"github.com/orgdesa/orgdesa/internal/policy"
	"gorm.io/gorm"
)

// ListParams are the optional listing filters shared by every content type.
type ListParams struct {
	Status   string
	Category string
	Search   string
	Page     int
}

// Page is one page of a listing with its metadata.
type Page[T any] struct {
	Data        []T   `json:"data"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

type scope = func(*gorm.DB) *gorm.DB

// paginate counts the scoped rows and loads the requested page, ordered by
// the listing's recency column with ties kept in insertion order.
// A page past the end yields empty data. Associations are preloaded through
// listPreload so a related row with a corrupt enum is left out instead of
// failing the listing.
func paginate[T any](db *gorm.DB, listing policy.Listing, page int, scopes []scope, preloads ...string) (*Page[T], error) {
	if page < 1 {
		page = 1
	}
	size := listing.PageSize

	var total int64
	if err := db.Model(new(T)).Scopes(scopes...).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count %s: %w", listing.Table, err)
	}

	result := &Page[T]{
		Data:        []T{},
		CurrentPage: page,
		PerPage:     size,
		Total:       total,
		LastPage:    lastPage(total, size),
	}

	if int64(page) > int64(result.LastPage) || total == 0 {
		return result, nil
	}
	offset := (page - 1) * size

	q := db.Scopes(scopes...)
	for _, p := range preloads {
		q = listPreload(q, p)
	}
	if err := q.Order(listing.OrderColumn + " DESC").Order("id ASC").
		Offset(offset).Limit(size).Find(&result.Data).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", listing.Table, err)
	}
	return result, nil
}

// listPreload preloads an association restricted to rows whose enumerated
// columns hold valid values.
func listPreload(db *gorm.DB, name string) *gorm.DB {
	switch name {
	case "Creator", "Uploader", "Documents.Uploader":
		return db.Preload(name, "role IN ?", models.Roles)
	case "Documents":
		return db.Preload(name, "document_type IN ?", models.ActivityDocumentTypes)
	}
	return db.Preload(name)
}

func lastPage(total int64, size int) int {
	if total == 0 {
		return 1
	}
	return int((total + int64(size) - 1) / int64(size))
}

// searchScope matches term case-insensitively as a substring of any field.
func searchScope(fields []string, term string) scope {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(fields) == 0 {
			return db
		}
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"

		clauses := make([]string, len(fields))
		args := make([]interface{}, len(fields))
		for i, f := range fields {
			clauses[i] = fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '\\'", f)
			args[i] = pattern
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func whereIn[V any](column string, values []V) scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" IN ?", values)
	}
}

func whereEq(column string, value interface{}) scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", value)
	}
}
