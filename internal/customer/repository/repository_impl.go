package repository

import (
	"context"

	"github.com/katapod/transcribe/internal/customer/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByUserID(ctx context.Context, db *gorm.DB, userID string) (*domain.Mapping, error) {
	var mapping domain.Mapping
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Take(&mapping).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrMappingNotFound
		}
		return nil, err
	}
	return &mapping, nil
}

func (r *repo) InsertIfAbsent(ctx context.Context, db *gorm.DB, mapping *domain.Mapping) (bool, error) {
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(mapping)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
