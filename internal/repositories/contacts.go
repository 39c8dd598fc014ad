package repositories

import (
	"errors"

	"github.com/google/uuid"
	"github.com/unicorn-byte/emergency-card/internal/models"
	"gorm.io/gorm"
)

// AddContact stores a new emergency contact. Two contacts with the same
// phone for one user are a conflict; the same phone under different users
// is fine. The (user_id, phone) unique index does the arbitration.
func AddContact(db *gorm.DB, contact *models.EmergencyContact) error {
	err := db.Create(contact).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	return err
}

// ListContacts returns the user's contacts, call-first order. Equal
// priorities keep insertion order.
func ListContacts(db *gorm.DB, userID uuid.UUID) ([]models.EmergencyContact, error) {
	var contacts []models.EmergencyContact
	err := db.Where("user_id = ?", userID).
		Order("priority asc, created_at asc").
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

// PrimaryContact returns the first contact in call order, or ErrNotFound
// if the user has none.
func PrimaryContact(db *gorm.DB, userID uuid.UUID) (*models.EmergencyContact, error) {
	var contact models.EmergencyContact
	err := db.Where("user_id = ?", userID).
		Order("priority asc, created_at asc").
		First(&contact).Error
	switch {
	case err == nil:
		return &contact, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	default:
		return nil, err
	}
}

// DeleteContact deletes one of the caller's contacts. An id belonging to a
// different user reports ErrNotFound; the ownership filter makes a bare id
// useless for deleting anyone else's records.
func DeleteContact(db *gorm.DB, userID, contactID uuid.UUID) error {
	res := db.Where("id = ? AND user_id = ?", contactID, userID).
		Delete(&models.EmergencyContact{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
