package content

import "gorm.io/gorm"

// orderByPosition sorts items by position (unpositioned last), then by
// creation order. Portable across Postgres and SQLite.
func orderByPosition(q *gorm.DB) *gorm.DB {
	return q.Order("position IS NULL").Order("position ASC").Order("created_at ASC").Order("id ASC")
}
