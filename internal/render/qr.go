package render

import (
	"encoding/base64"

	qrcode "github.com/skip2/go-qrcode"
)

// qrSize is the PNG edge length in pixels.
const qrSize = 256

// QRCodePNG encodes the public card URL as a PNG. High error correction
// keeps a battered wallet card scannable.
func QRCodePNG(url string) ([]byte, error) {
	return qrcode.Encode(url, qrcode.High, qrSize)
}

// QRCodeBase64 returns the PNG base64-encoded for embedding in JSON
// responses and data URIs.
func QRCodeBase64(url string) (string, error) {
	png, err := QRCodePNG(url)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
