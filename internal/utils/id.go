package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateSecureToken creates a cryptographically secure random token.
func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GeneratePublicID creates the short opaque identifier embedded in QR codes
// and public URLs. Six random bytes give a 48-bit space, large enough that
// guessing a live id is infeasible while the encoded form stays at eight
// characters for QR density.
func GeneratePublicID() (string, error) {
	return GenerateSecureToken(6)
}
