// Package disclosure builds the single canonical view of a card that the
// JSON, HTML and PDF renderers all consume. Fields the owner hid are
// truly absent from the view, not blanked, so no renderer can leak a
// redacted value by accident.
package disclosure

import (
	"github.com/unicorn-byte/emergency-card/internal/crypto"
	"github.com/unicorn-byte/emergency-card/internal/models"
)

// ContactView is the fully public shape of one emergency contact.
type ContactView struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Phone    string `json:"phone"`
	Priority int    `json:"priority"`
}

// View is the flag-filtered, decrypted projection of a profile. Pointer
// fields are nil when the matching visibility flag is off. OrganDonor is
// always present: a responder should never have it hidden from them.
type View struct {
	FullName          *string       `json:"full_name,omitempty"`
	Age               *int          `json:"age,omitempty"`
	BloodGroup        *string       `json:"blood_group,omitempty"`
	Allergies         *[]string     `json:"allergies,omitempty"`
	MedicalConditions *[]string     `json:"medical_conditions,omitempty"`
	Medications       *[]string     `json:"medications,omitempty"`
	OrganDonor        bool          `json:"organ_donor"`
	EmergencyContacts []ContactView `json:"emergency_contacts"`
}

// Projector turns stored profiles into disclosed views. It holds the
// envelope so sensitive tokens are opened only here, at disclosure time,
// and plaintext is never cached anywhere.
type Projector struct {
	env *crypto.Envelope
}

func NewProjector(env *crypto.Envelope) *Projector {
	return &Projector{env: env}
}

// Project applies the profile's visibility policy. Contacts are expected
// in store order (priority ascending) and pass through untouched.
func (p *Projector) Project(profile *models.EmergencyProfile, contacts []models.EmergencyContact) View {
	view := View{
		OrganDonor:        profile.OrganDonor,
		EmergencyContacts: make([]ContactView, 0, len(contacts)),
	}

	if profile.ShowName {
		view.FullName = &profile.FullName
	}
	if profile.ShowAge {
		view.Age = &profile.Age
	}
	if profile.ShowBloodGroup {
		view.BloodGroup = &profile.BloodGroup
	}
	if profile.ShowAllergies {
		allergies := p.env.Open(profile.Allergies)
		view.Allergies = &allergies
	}
	if profile.ShowConditions {
		conditions := p.env.Open(profile.MedicalConditions)
		view.MedicalConditions = &conditions
	}
	if profile.ShowMeds {
		medications := p.env.Open(profile.Medications)
		view.Medications = &medications
	}

	for _, c := range contacts {
		view.EmergencyContacts = append(view.EmergencyContacts, ContactView{
			Name:     c.Name,
			Relation: c.Relation,
			Phone:    c.Phone,
			Priority: c.Priority,
		})
	}

	return view
}
