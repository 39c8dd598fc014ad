package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmergencyContact belongs to a user, not to a profile; a user may keep
// contacts before ever creating a card. Phone is the per-user dedup key.
type EmergencyContact struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID   uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_contact_user_phone"`
	Name     string    `json:"name" gorm:"not null"`
	Relation string    `json:"relation" gorm:"not null"`
	Phone    string    `json:"phone" gorm:"not null;uniqueIndex:idx_contact_user_phone"`
	Email    string    `json:"email"`
	// Lower value means call first. Ties keep insertion order.
	Priority  int       `json:"priority" gorm:"default:1"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (c *EmergencyContact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
