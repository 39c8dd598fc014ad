package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unicorn-byte/emergency-card/internal/models"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Penicillin", "Peanuts"}, SplitList("Penicillin,Peanuts"))
	assert.Equal(t, []string{"Penicillin", "Peanuts"}, SplitList(" Penicillin , Peanuts "))
	assert.Empty(t, SplitList(""))
	assert.Empty(t, SplitList(" , ,"))
}

func TestCreateProfileSealsMedicalFields(t *testing.T) {
	db := newTestDB(t)
	env := newTestEnvelope(t)
	user := createTestUser(t, db, "alice")

	profile, err := CreateProfile(db, env, user.ID, ProfileInput{
		FullName:   "Alice Smith",
		Age:        30,
		BloodGroup: "A+",
		Allergies:  "Penicillin,Peanuts",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, profile.PublicID)
	assert.Len(t, profile.PublicID, 8)
	assert.True(t, profile.ShowAllergies)

	// Only ciphertext hits the store.
	var stored models.EmergencyProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&stored).Error)
	assert.NotContains(t, stored.Allergies, "Penicillin")
	assert.Equal(t, []string{"Penicillin", "Peanuts"}, env.Open(stored.Allergies))

	// Empty medical input seals to the canonical empty token.
	assert.Equal(t, "", stored.Medications)
}

func TestCreateProfileTwiceIsConflict(t *testing.T) {
	db := newTestDB(t)
	env := newTestEnvelope(t)
	user := createTestUser(t, db, "bob")

	_, err := CreateProfile(db, env, user.ID, ProfileInput{FullName: "Bob"})
	require.NoError(t, err)

	_, err = CreateProfile(db, env, user.ID, ProfileInput{FullName: "Bob again"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestGetProfileByPublicID(t *testing.T) {
	db := newTestDB(t)
	env := newTestEnvelope(t)
	user := createTestUser(t, db, "carol")

	created, err := CreateProfile(db, env, user.ID, ProfileInput{FullName: "Carol"})
	require.NoError(t, err)

	resolved, err := GetProfileByPublicID(db, created.PublicID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, resolved.ID)

	_, err = GetProfileByPublicID(db, "nope-nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfilePartialSemantics(t *testing.T) {
	db := newTestDB(t)
	env := newTestEnvelope(t)
	user := createTestUser(t, db, "dave")

	created, err := CreateProfile(db, env, user.ID, ProfileInput{
		FullName:          "Dave",
		Allergies:         "Latex",
		MedicalConditions: "Asthma,Epilepsy",
	})
	require.NoError(t, err)
	originalConditionsToken := created.MedicalConditions

	updated, err := UpdateProfile(db, env, user.ID, models.ProfilePatch{
		FullName:  strPtr("David"),
		Allergies: strPtr("Latex,Bee stings"),
		// MedicalConditions omitted on purpose
		ShowAllergies: boolPtr(false),
		Age:           intPtr(41),
	})
	require.NoError(t, err)

	assert.Equal(t, "David", updated.FullName)
	assert.Equal(t, 41, updated.Age)
	assert.False(t, updated.ShowAllergies)
	assert.Equal(t, []string{"Latex", "Bee stings"}, env.Open(updated.Allergies))

	// An omitted medical field keeps its exact stored token: no
	// re-encryption, no double-sealing.
	assert.Equal(t, originalConditionsToken, updated.MedicalConditions)
	assert.Equal(t, []string{"Asthma", "Epilepsy"}, env.Open(updated.MedicalConditions))

	// The public id never changes across updates.
	assert.Equal(t, created.PublicID, updated.PublicID)
}

func TestUpdateProfileExplicitEmptyClearsField(t *testing.T) {
	db := newTestDB(t)
	env := newTestEnvelope(t)
	user := createTestUser(t, db, "erin")

	_, err := CreateProfile(db, env, user.ID, ProfileInput{Medications: "Insulin"})
	require.NoError(t, err)

	updated, err := UpdateProfile(db, env, user.ID, models.ProfilePatch{
		Medications: strPtr(""),
	})
	require.NoError(t, err)

	assert.Equal(t, "", updated.Medications)
	assert.Equal(t, []string{}, env.Open(updated.Medications))
}

func TestUpdateMissingProfileIsNotFound(t *testing.T) {
	db := newTestDB(t)
	env := newTestEnvelope(t)
	user := createTestUser(t, db, "frank")

	_, err := UpdateProfile(db, env, user.ID, models.ProfilePatch{FullName: strPtr("Frank")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProfileRetiresPublicID(t *testing.T) {
	db := newTestDB(t)
	env := newTestEnvelope(t)
	user := createTestUser(t, db, "grace")

	created, err := CreateProfile(db, env, user.ID, ProfileInput{FullName: "Grace"})
	require.NoError(t, err)

	require.NoError(t, DeleteProfile(db, user.ID))

	_, err = GetProfileByPublicID(db, created.PublicID)
	assert.ErrorIs(t, err, ErrNotFound)

	// A new profile gets a fresh id; the old one is never reassigned.
	recreated, err := CreateProfile(db, env, user.ID, ProfileInput{FullName: "Grace"})
	require.NoError(t, err)
	assert.NotEqual(t, created.PublicID, recreated.PublicID)

	require.NoError(t, DeleteProfile(db, user.ID))
	assert.ErrorIs(t, DeleteProfile(db, user.ID), ErrNotFound)
}

func TestOwnersCannotReadEachOthersProfiles(t *testing.T) {
	db := newTestDB(t)
	env := newTestEnvelope(t)
	alice := createTestUser(t, db, "alice2")
	mallory := createTestUser(t, db, "mallory")

	_, err := CreateProfile(db, env, alice.ID, ProfileInput{FullName: "Alice"})
	require.NoError(t, err)

	_, err = GetProfileByUser(db, mallory.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, DeleteProfile(db, mallory.ID), ErrNotFound)
	_, err = UpdateProfile(db, env, mallory.ID, models.ProfilePatch{FullName: strPtr("pwned")})
	assert.ErrorIs(t, err, ErrNotFound)
}
