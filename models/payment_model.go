package models

import (
	"time"

	"github.com/google/uuid"
)

type Payment struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key"`
	ServiceRequestID *uuid.UUID `gorm:"unique"`
	AmountCents      int64      `gorm:"not null"`
	Currency         string     `gorm:"size:3;not null;default:'USD'"`
	Provider         string     `gorm:"size:50;not null"`
	ProviderTxnID    *string    `gorm:"size:255;unique"`
	Status           string     `gorm:"size:20;not null"`
	RefundStatus     *string    `gorm:"size:20"`
	RefundReason     *string    `gorm:"type:text"`
	RefundCents      int64      `gorm:"default:0"`

	ServiceRequest ServiceRequest `gorm:"foreignkey:ServiceRequestID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
