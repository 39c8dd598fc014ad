package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmergencyProfile is the disclosable record behind a card. The three
// medical list fields hold envelope tokens, never plaintext; everything a
// first responder may see is gated by the Show* flags except the organ
// donor marker, which is always disclosed.
type EmergencyProfile struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `json:"userId" gorm:"type:uuid;uniqueIndex;not null"`

	// PublicID is the only identifier ever placed in a QR code or URL.
	// Generated once at creation, never reassigned.
	PublicID string `json:"publicId" gorm:"uniqueIndex;not null"`

	FullName   string `json:"fullName"`
	Age        int    `json:"age"`
	BloodGroup string `json:"bloodGroup" gorm:"size:10"`

	// Envelope tokens (see internal/crypto).
	Allergies         string `json:"-" gorm:"type:text"`
	MedicalConditions string `json:"-" gorm:"type:text"`
	Medications       string `json:"-" gorm:"type:text"`

	DoctorName  string `json:"doctorName"`
	DoctorPhone string `json:"doctorPhone"`
	OrganDonor  bool   `json:"organDonor" gorm:"default:false"`
	Notes       string `json:"notes" gorm:"type:text"`

	ShowName       bool `json:"showName" gorm:"default:true"`
	ShowAge        bool `json:"showAge" gorm:"default:true"`
	ShowBloodGroup bool `json:"showBloodGroup" gorm:"default:true"`
	ShowAllergies  bool `json:"showAllergies" gorm:"default:true"`
	ShowConditions bool `json:"showConditions" gorm:"default:true"`
	ShowMeds       bool `json:"showMedications" gorm:"default:true"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (p *EmergencyProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProfilePatch enumerates every field an owner may change. A nil pointer
// means "leave it alone"; a present pointer mutates, so sending an empty
// string for a medical field clears it rather than skipping it. Medical
// fields arrive as comma-delimited text and are split and re-sealed by the
// store, only when actually supplied.
type ProfilePatch struct {
	FullName          *string `json:"fullName"`
	Age               *int    `json:"age"`
	BloodGroup        *string `json:"bloodGroup"`
	Allergies         *string `json:"allergies"`
	MedicalConditions *string `json:"medicalConditions"`
	Medications       *string `json:"medications"`
	DoctorName        *string `json:"doctorName"`
	DoctorPhone       *string `json:"doctorPhone"`
	OrganDonor        *bool   `json:"organDonor"`
	Notes             *string `json:"notes"`
	ShowName          *bool   `json:"showName"`
	ShowAge           *bool   `json:"showAge"`
	ShowBloodGroup    *bool   `json:"showBloodGroup"`
	ShowAllergies     *bool   `json:"showAllergies"`
	ShowConditions    *bool   `json:"showConditions"`
	ShowMeds          *bool   `json:"showMedications"`
}
