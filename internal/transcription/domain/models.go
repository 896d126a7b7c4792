package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidFile    = errors.New("invalid_file")
	ErrRecordNotFound = errors.New("transcription_not_found")

	// ErrNetwork marks a transport failure talking to the inference
	// endpoint; ErrResponse marks a reply we could not use.
	ErrNetwork  = errors.New("upstream_network_error")
	ErrResponse = errors.New("upstream_response_error")
)

// FileData is the caller-supplied description of an uploaded file.
type FileData struct {
	Size           int64   `json:"size"`
	FileType       string  `json:"fileType"`
	Duration       float64 `json:"duration"`
	UserID         string  `json:"supabaseId"`
	IdempotencyKey string  `json:"idempotencyKey"`
	Prompt         string  `json:"prompt,omitempty"`
}

func (d FileData) Validate() error {
	if d.UserID == "" || d.IdempotencyKey == "" {
		return ErrInvalidFile
	}
	if d.Size <= 0 || d.Duration <= 0 {
		return ErrInvalidFile
	}
	return nil
}

// Record is one completed transcription. The same shape backs the live
// table, the append-only log and the soft-delete bin.
type Record struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	SupabaseID     string       `gorm:"column:supabase_id;not null;index" json:"supabase_id"`
	StripeID       string       `gorm:"column:stripe_id;not null" json:"stripe_id"`
	Transcription  string       `gorm:"column:transcription;not null" json:"transcription"`
	FileSize       int64        `gorm:"column:file_size;not null" json:"file_size"`
	FileDuration   float64      `gorm:"column:file_duration;not null" json:"file_duration"`
	FileType       string       `gorm:"column:file_type;not null" json:"file_type"`
	IdempotencyKey string       `gorm:"column:idempotency_key;not null;uniqueIndex" json:"idempotency_key"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

const (
	TableLive = "transcriptions"
	TableLog  = "transcriptions-log"
	TableBin  = "transcriptions_bin"
)

func (Record) TableName() string {
	return TableLive
}

type TranscribeRequest struct {
	FileName string
	Data     []byte
	FileData FileData
	Model    string
}
