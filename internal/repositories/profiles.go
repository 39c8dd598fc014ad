package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/unicorn-byte/emergency-card/internal/crypto"
	"github.com/unicorn-byte/emergency-card/internal/models"
	"github.com/unicorn-byte/emergency-card/internal/utils"
	"gorm.io/gorm"
)

// publicIDAttempts bounds the retry loop on the (astronomically unlikely)
// public id collision.
const publicIDAttempts = 5

// ProfileInput carries the raw create payload. Medical fields arrive as
// comma-delimited text and are sealed before anything touches the store;
// they always pass through the envelope, even when empty.
type ProfileInput struct {
	FullName          string `json:"fullName"`
	Age               int    `json:"age"`
	BloodGroup        string `json:"bloodGroup"`
	Allergies         string `json:"allergies"`
	MedicalConditions string `json:"medicalConditions"`
	Medications       string `json:"medications"`
	DoctorName        string `json:"doctorName"`
	DoctorPhone       string `json:"doctorPhone"`
	OrganDonor        bool   `json:"organDonor"`
	Notes             string `json:"notes"`
}

// SplitList turns comma-delimited user input into the list form the
// envelope seals. Blank segments are dropped.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// CreateProfile creates the single profile a user may own. Returns
// ErrConflict if one already exists; uniqueness is enforced by the
// database constraint so concurrent creators cannot both win.
func CreateProfile(db *gorm.DB, env *crypto.Envelope, userID uuid.UUID, in ProfileInput) (*models.EmergencyProfile, error) {
	allergies, err := env.Seal(SplitList(in.Allergies))
	if err != nil {
		return nil, fmt.Errorf("failed to seal allergies: %w", err)
	}
	conditions, err := env.Seal(SplitList(in.MedicalConditions))
	if err != nil {
		return nil, fmt.Errorf("failed to seal conditions: %w", err)
	}
	medications, err := env.Seal(SplitList(in.Medications))
	if err != nil {
		return nil, fmt.Errorf("failed to seal medications: %w", err)
	}

	for attempt := 0; attempt < publicIDAttempts; attempt++ {
		publicID, err := utils.GeneratePublicID()
		if err != nil {
			return nil, fmt.Errorf("failed to generate public id: %w", err)
		}

		profile := &models.EmergencyProfile{
			UserID:            userID,
			PublicID:          publicID,
			FullName:          in.FullName,
			Age:               in.Age,
			BloodGroup:        in.BloodGroup,
			Allergies:         allergies,
			MedicalConditions: conditions,
			Medications:       medications,
			DoctorName:        in.DoctorName,
			DoctorPhone:       in.DoctorPhone,
			OrganDonor:        in.OrganDonor,
			Notes:             in.Notes,
			ShowName:          true,
			ShowAge:           true,
			ShowBloodGroup:    true,
			ShowAllergies:     true,
			ShowConditions:    true,
			ShowMeds:          true,
		}

		err = db.Create(profile).Error
		if err == nil {
			return profile, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}

		// A duplicate key is either "user already has a profile" or a
		// public id collision. Only the latter is worth retrying.
		var existing models.EmergencyProfile
		if lookupErr := db.Where("user_id = ?", userID).First(&existing).Error; lookupErr == nil {
			return nil, ErrConflict
		}
	}

	return nil, fmt.Errorf("could not allocate a unique public id after %d attempts", publicIDAttempts)
}

// GetProfileByUser returns the caller's own profile.
func GetProfileByUser(db *gorm.DB, userID uuid.UUID) (*models.EmergencyProfile, error) {
	var profile models.EmergencyProfile
	err := db.Where("user_id = ?", userID).First(&profile).Error
	switch {
	case err == nil:
		return &profile, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	default:
		return nil, err
	}
}

// GetProfileByPublicID resolves a card for anonymous access. This is the
// hot path behind every QR scan; public_id carries a unique index.
func GetProfileByPublicID(db *gorm.DB, publicID string) (*models.EmergencyProfile, error) {
	var profile models.EmergencyProfile
	err := db.Where("public_id = ?", publicID).First(&profile).Error
	switch {
	case err == nil:
		return &profile, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	default:
		return nil, err
	}
}

// UpdateProfile applies a partial update. Only supplied fields mutate, and
// only supplied medical fields get re-sealed; an explicit empty string
// clears a medical field to the empty list.
func UpdateProfile(db *gorm.DB, env *crypto.Envelope, userID uuid.UUID, patch models.ProfilePatch) (*models.EmergencyProfile, error) {
	profile, err := GetProfileByUser(db, userID)
	if err != nil {
		return nil, err
	}

	if patch.FullName != nil {
		profile.FullName = *patch.FullName
	}
	if patch.Age != nil {
		profile.Age = *patch.Age
	}
	if patch.BloodGroup != nil {
		profile.BloodGroup = *patch.BloodGroup
	}
	if patch.Allergies != nil {
		if profile.Allergies, err = env.Seal(SplitList(*patch.Allergies)); err != nil {
			return nil, fmt.Errorf("failed to seal allergies: %w", err)
		}
	}
	if patch.MedicalConditions != nil {
		if profile.MedicalConditions, err = env.Seal(SplitList(*patch.MedicalConditions)); err != nil {
			return nil, fmt.Errorf("failed to seal conditions: %w", err)
		}
	}
	if patch.Medications != nil {
		if profile.Medications, err = env.Seal(SplitList(*patch.Medications)); err != nil {
			return nil, fmt.Errorf("failed to seal medications: %w", err)
		}
	}
	if patch.DoctorName != nil {
		profile.DoctorName = *patch.DoctorName
	}
	if patch.DoctorPhone != nil {
		profile.DoctorPhone = *patch.DoctorPhone
	}
	if patch.OrganDonor != nil {
		profile.OrganDonor = *patch.OrganDonor
	}
	if patch.Notes != nil {
		profile.Notes = *patch.Notes
	}
	if patch.ShowName != nil {
		profile.ShowName = *patch.ShowName
	}
	if patch.ShowAge != nil {
		profile.ShowAge = *patch.ShowAge
	}
	if patch.ShowBloodGroup != nil {
		profile.ShowBloodGroup = *patch.ShowBloodGroup
	}
	if patch.ShowAllergies != nil {
		profile.ShowAllergies = *patch.ShowAllergies
	}
	if patch.ShowConditions != nil {
		profile.ShowConditions = *patch.ShowConditions
	}
	if patch.ShowMeds != nil {
		profile.ShowMeds = *patch.ShowMeds
	}

	if err := db.Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// DeleteProfile removes the caller's profile. The public id dies with it
// and is never reassigned.
func DeleteProfile(db *gorm.DB, userID uuid.UUID) error {
	res := db.Where("user_id = ?", userID).Delete(&models.EmergencyProfile{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
