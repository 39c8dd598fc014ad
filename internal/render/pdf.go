package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/unicorn-byte/emergency-card/internal/disclosure"
)

// Credit card size in points (3.375" x 2.125").
const (
	cardWidth  = 243.0
	cardHeight = 153.0
)

// CardPDF renders the printable wallet card: name, age and blood group on
// the right, the QR of the public URL on the left, the primary contact at
// the bottom. Hidden fields arrive nil on the view and print as "N/A".
func CardPDF(view disclosure.View, publicURL string) ([]byte, error) {
	qrPNG, err := QRCodePNG(publicURL)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: cardWidth, Ht: cardHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Border
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(1.5)
	pdf.Rect(6, 6, cardWidth-12, cardHeight-12, "D")

	// Header
	pdf.SetTextColor(204, 0, 0)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(0, 12)
	pdf.CellFormat(cardWidth, 14, "EMERGENCY MEDICAL CARD", "", 0, "C", false, 0, "")

	// QR on the left
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("card-qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("card-qr", 14, 36, 94, 94, false, opts, 0, "")
	pdf.SetTextColor(90, 90, 90)
	pdf.SetFont("Helvetica", "", 6)
	pdf.SetXY(14, 132)
	pdf.CellFormat(94, 8, "Scan for full details", "", 0, "C", false, 0, "")

	// Identity block on the right
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(118, 40)
	pdf.CellFormat(0, 12, orNA(view.FullName), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(118, 56)
	age := "N/A"
	if view.Age != nil {
		age = fmt.Sprintf("%d", *view.Age)
	}
	pdf.CellFormat(0, 11, "Age: "+age, "", 0, "L", false, 0, "")

	pdf.SetTextColor(204, 0, 0)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetXY(118, 70)
	pdf.CellFormat(0, 14, "Blood: "+orNA(view.BloodGroup), "", 0, "L", false, 0, "")

	if view.OrganDonor {
		pdf.SetTextColor(0, 120, 0)
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetXY(118, 86)
		pdf.CellFormat(0, 10, "ORGAN DONOR", "", 0, "L", false, 0, "")
	}

	// Primary contact
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(118, 104)
	pdf.CellFormat(0, 10, "Emergency contact:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	name, phone := "N/A", "N/A"
	if len(view.EmergencyContacts) > 0 {
		name = view.EmergencyContacts[0].Name
		phone = view.EmergencyContacts[0].Phone
	}
	pdf.SetXY(118, 114)
	pdf.CellFormat(0, 10, name, "", 0, "L", false, 0, "")
	pdf.SetXY(118, 124)
	pdf.CellFormat(0, 10, phone, "", 0, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render card PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}
