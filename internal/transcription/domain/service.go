package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Upstream is the speech-to-text inference backend.
type Upstream interface {
	Transcribe(ctx context.Context, fileName string, data []byte, model, prompt string) (string, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *Record) error
	AppendLog(ctx context.Context, db *gorm.DB, record *Record) error
	ListByUser(ctx context.Context, db *gorm.DB, userID string) ([]Record, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Record, error)
	// SoftDelete moves the record from the live table to the bin.
	SoftDelete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	// Restore moves the record from the bin back to the live table.
	Restore(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	// Purge removes the record from the bin for good.
	Purge(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	ListBin(ctx context.Context, db *gorm.DB, userID string) ([]Record, error)
}

type Service interface {
	Transcribe(ctx context.Context, req TranscribeRequest) (string, error)
	List(ctx context.Context, userID string) ([]Record, error)
	ListBin(ctx context.Context, userID string) ([]Record, error)
	Delete(ctx context.Context, id snowflake.ID) error
	Restore(ctx context.Context, id snowflake.ID) error
	Purge(ctx context.Context, id snowflake.ID) error
}
