package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrMappingNotFound = errors.New("customer_mapping_not_found")
	ErrInvalidUserID   = errors.New("invalid_user_id")
)

// Mapping links an application user to their billing provider customer.
type Mapping struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    string       `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	StripeID  string       `gorm:"column:stripe_id;not null" json:"stripe_id"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Mapping) TableName() string {
	return "stripe"
}
