package repositories

import (
	"errors"

	"github.com/unicorn-byte/emergency-card/internal/models"
	"gorm.io/gorm"
)

// RecordAccess appends one access-log row for the owner of the given
// public id. An unknown public id is a silent no-op: auditing a card that
// does not exist means nothing. Write failures are returned so the one
// caller (the auditor) can decide to discard them.
func RecordAccess(db *gorm.DB, publicID, ipAddress, userAgent string) error {
	profile, err := GetProfileByPublicID(db, publicID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	entry := &models.AccessLog{
		UserID:    profile.UserID,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	return db.Create(entry).Error
}
