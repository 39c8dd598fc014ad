package disclosure

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unicorn-byte/emergency-card/internal/crypto"
	"github.com/unicorn-byte/emergency-card/internal/models"
)

func testProfile(t *testing.T, env *crypto.Envelope) *models.EmergencyProfile {
	t.Helper()

	allergies, err := env.Seal([]string{"Penicillin", "Peanuts"})
	require.NoError(t, err)
	conditions, err := env.Seal([]string{"Asthma"})
	require.NoError(t, err)
	medications, err := env.Seal([]string{"Salbutamol"})
	require.NoError(t, err)

	return &models.EmergencyProfile{
		FullName:          "Jordan Doe",
		Age:               34,
		BloodGroup:        "O+",
		Allergies:         allergies,
		MedicalConditions: conditions,
		Medications:       medications,
		OrganDonor:        true,
		ShowName:          true,
		ShowAge:           true,
		ShowBloodGroup:    true,
		ShowAllergies:     true,
		ShowConditions:    true,
		ShowMeds:          true,
	}
}

func TestProjectDisclosesEverythingWhenAllFlagsOn(t *testing.T) {
	env, err := crypto.New("projector-test-key")
	require.NoError(t, err)
	p := NewProjector(env)

	profile := testProfile(t, env)
	contacts := []models.EmergencyContact{
		{Name: "Sam", Relation: "Spouse", Phone: "555-0100", Priority: 1},
		{Name: "Ana", Relation: "Friend", Phone: "555-0101", Priority: 2},
	}

	view := p.Project(profile, contacts)

	require.NotNil(t, view.FullName)
	assert.Equal(t, "Jordan Doe", *view.FullName)
	require.NotNil(t, view.Allergies)
	assert.Equal(t, []string{"Penicillin", "Peanuts"}, *view.Allergies)
	require.NotNil(t, view.MedicalConditions)
	assert.Equal(t, []string{"Asthma"}, *view.MedicalConditions)
	require.NotNil(t, view.Medications)
	assert.Equal(t, []string{"Salbutamol"}, *view.Medications)
	assert.True(t, view.OrganDonor)

	require.Len(t, view.EmergencyContacts, 2)
	assert.Equal(t, "Sam", view.EmergencyContacts[0].Name)
	assert.Equal(t, 1, view.EmergencyContacts[0].Priority)
}

func TestHiddenFieldsAreAbsentNotBlank(t *testing.T) {
	env, err := crypto.New("projector-test-key")
	require.NoError(t, err)
	p := NewProjector(env)

	profile := testProfile(t, env)
	profile.ShowAllergies = false
	profile.ShowAge = false

	view := p.Project(profile, nil)

	assert.Nil(t, view.Allergies)
	assert.Nil(t, view.Age)
	require.NotNil(t, view.Medications)

	// The serialized form must omit hidden fields entirely.
	raw, err := json.Marshal(view)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.NotContains(t, decoded, "allergies")
	assert.NotContains(t, decoded, "age")
	assert.Contains(t, decoded, "medications")
}

func TestOrganDonorSurvivesEveryFlagCombination(t *testing.T) {
	env, err := crypto.New("projector-test-key")
	require.NoError(t, err)
	p := NewProjector(env)

	for mask := 0; mask < 64; mask++ {
		profile := testProfile(t, env)
		profile.ShowName = mask&1 != 0
		profile.ShowAge = mask&2 != 0
		profile.ShowBloodGroup = mask&4 != 0
		profile.ShowAllergies = mask&8 != 0
		profile.ShowConditions = mask&16 != 0
		profile.ShowMeds = mask&32 != 0

		view := p.Project(profile, nil)

		raw, err := json.Marshal(view)
		require.NoError(t, err)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Contains(t, decoded, "organ_donor", "mask %06b", mask)
		assert.Equal(t, true, decoded["organ_donor"])
	}
}

func TestCorruptTokenDegradesToEmptyList(t *testing.T) {
	env, err := crypto.New("projector-test-key")
	require.NoError(t, err)
	p := NewProjector(env)

	profile := testProfile(t, env)
	profile.Allergies = "garbage-that-is-not-a-token"

	view := p.Project(profile, nil)

	require.NotNil(t, view.Allergies)
	assert.Equal(t, []string{}, *view.Allergies)
}
