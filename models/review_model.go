package models

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ServiceRequestID uuid.UUID `gorm:"not null;unique" json:"service_request_id"`
	CustomerID       uuid.UUID `gorm:"not null" json:"customer_id"`
	FundiID          uuid.UUID `gorm:"not null" json:"fundi_id"`
	Rating           int       `gorm:"not null" json:"rating"`
	Comment          string    `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
}
