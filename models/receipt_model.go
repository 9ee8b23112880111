package models

import (
	"time"

	"github.com/google/uuid"
)

type Receipt struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ServiceRequestID uuid.UUID `gorm:"not null;unique" json:"service_request_id"`
	CustomerID       uuid.UUID `gorm:"not null" json:"customer_id"`
	ReceiptURL       string    `gorm:"size:255;not null" json:"receipt_url"`
	IssuedAt         time.Time `gorm:"not null" json:"issued_at"`
}
