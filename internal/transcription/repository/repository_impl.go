package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/katapod/transcribe/internal/transcription/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.Record) error {
	return db.WithContext(ctx).Table(domain.TableLive).Create(record).Error
}

func (r *repo) AppendLog(ctx context.Context, db *gorm.DB, record *domain.Record) error {
	return db.WithContext(ctx).Table(domain.TableLog).Create(record).Error
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.Record, error) {
	var records []domain.Record
	err := db.WithContext(ctx).
		Table(domain.TableLive).
		Where("supabase_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Record, error) {
	return findIn(ctx, db, domain.TableLive, id)
}

func (r *repo) SoftDelete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return move(ctx, db, domain.TableLive, domain.TableBin, id)
}

func (r *repo) Restore(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return move(ctx, db, domain.TableBin, domain.TableLive, id)
}

func (r *repo) Purge(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	res := db.WithContext(ctx).
		Table(domain.TableBin).
		Where("id = ?", id).
		Delete(&domain.Record{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *repo) ListBin(ctx context.Context, db *gorm.DB, userID string) ([]domain.Record, error) {
	var records []domain.Record
	err := db.WithContext(ctx).
		Table(domain.TableBin).
		Where("supabase_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func findIn(ctx context.Context, db *gorm.DB, table string, id snowflake.ID) (*domain.Record, error) {
	var record domain.Record
	err := db.WithContext(ctx).
		Table(table).
		Where("id = ?", id).
		Take(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func move(ctx context.Context, db *gorm.DB, from, to string, id snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := findIn(ctx, tx, from, id)
		if err != nil {
			return err
		}
		if err := tx.Table(to).Create(record).Error; err != nil {
			return err
		}
		return tx.Table(from).Where("id = ?", id).Delete(&domain.Record{}).Error
	})
}
