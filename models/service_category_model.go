package models

import (
	"time"

	"github.com/google/uuid"
)

type ServiceCategory struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name           string    `gorm:"size:100;not null;unique" json:"name"`
	Description    *string   `gorm:"type:text" json:"description"`
	BasePriceCents int64     `gorm:"not null" json:"base_price_cents"`
	Currency       string    `gorm:"size:3;not null;default:'USD'" json:"currency"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
