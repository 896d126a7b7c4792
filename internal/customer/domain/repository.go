package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindByUserID(ctx context.Context, db *gorm.DB, userID string) (*Mapping, error)
	// InsertIfAbsent inserts the mapping unless a row for the same user
	// already exists. It reports whether this call created the row.
	InsertIfAbsent(ctx context.Context, db *gorm.DB, mapping *Mapping) (bool, error)
}
