package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unicorn-byte/emergency-card/internal/disclosure"
)

func sampleView() disclosure.View {
	name := "Jordan Doe"
	blood := "O+"
	allergies := []string{"Penicillin"}
	return disclosure.View{
		FullName:   &name,
		BloodGroup: &blood,
		Allergies:  &allergies,
		OrganDonor: true,
		EmergencyContacts: []disclosure.ContactView{
			{Name: "Sam Doe", Relation: "Spouse", Phone: "555-0100", Priority: 1},
		},
	}
}

func TestQRCodePNG(t *testing.T) {
	png, err := QRCodePNG("https://cards.example.com/emergency/abc12345")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestCardPDF(t *testing.T) {
	pdf, err := CardPDF(sampleView(), "https://cards.example.com/emergency/abc12345")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestCardHTMLShowsOnlyDisclosedFields(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, CardHTML(&buf, sampleView()))

	page := buf.String()
	assert.Contains(t, page, "Jordan Doe")
	assert.Contains(t, page, "O+")
	assert.Contains(t, page, "Penicillin")
	assert.Contains(t, page, "Sam Doe")

	hidden := sampleView()
	hidden.FullName = nil
	hidden.Allergies = nil

	buf.Reset()
	require.NoError(t, CardHTML(&buf, hidden))
	page = buf.String()
	assert.NotContains(t, page, "Jordan Doe")
	assert.NotContains(t, page, "Penicillin")
}
