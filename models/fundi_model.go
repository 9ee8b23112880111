package models

import (
	"time"

	"github.com/google/uuid"
)

// Fundi is the worker-side profile for a user. A user becomes a fundi by
// applying and being approved by an admin.
type Fundi struct {
	UserID    uuid.UUID `gorm:"primary_key" json:"user_id"`
	Headline  *string   `gorm:"size:255" json:"headline"`
	Bio       *string   `gorm:"type:text" json:"bio"`
	Status    string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	AvgRating float32   `gorm:"default:0" json:"avg_rating"`

	// External payment provider state. Instant payouts require a connected
	// account that is enabled for payouts.
	PayoutAccountID   *string `gorm:"size:255" json:"-"`
	PayoutsEnabled    bool    `gorm:"default:false" json:"payouts_enabled"`
	IdentityStatus    string  `gorm:"size:20;not null;default:'unverified'" json:"identity_status"`
	IdentitySessionID *string `gorm:"size:255" json:"-"`

	User      User      `gorm:"foreignkey:UserID" json:"user"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
