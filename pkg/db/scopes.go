package db

import "gorm.io/gorm"

// NotDeleted filters out soft-deleted rows. Every read path that respects
// soft deletes applies this scope instead of repeating the predicate.
func NotDeleted(tx *gorm.DB) *gorm.DB {
	return tx.Where("deleted_at IS NULL")
}
