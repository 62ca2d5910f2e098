package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is the server side record behind a bearer credential.
// An account holds at most one session, deleting it logs the account out.
type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is no longer usable at t
func (s Session) Expired(t time.Time) bool {
	return !s.ExpiresAt.After(t)
}
