package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccessLog is an append-only record of one public card view. Nothing in
// the service reads these back; they exist for the owner's peace of mind.
type AccessLog struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	AccessedAt time.Time `json:"accessedAt" gorm:"autoCreateTime"`
	IPAddress  string    `json:"ipAddress"`
	UserAgent  string    `json:"userAgent"`
}

func (a *AccessLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
