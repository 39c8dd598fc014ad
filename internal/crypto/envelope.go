// Package crypto implements the envelope that keeps medical list fields
// encrypted at rest. Values are sealed as canonical JSON arrays under
// AES-256-GCM with a random nonce, so two seals of the same list never
// produce the same token while both open back to it.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
)

const keySize = 32

// Envelope seals and opens string lists with a single process-wide key.
// Construct one at startup and share it; it is immutable afterward.
type Envelope struct {
	gcm cipher.AEAD
}

// New derives a 32-byte key from the configured secret by padding with
// zeros or truncating, matching how every sealed token in an existing
// store was produced. Changing the secret orphans all stored tokens.
func New(secret string) (*Envelope, error) {
	key := make([]byte, keySize)
	copy(key, []byte(secret))

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &Envelope{gcm: gcm}, nil
}

// Seal encrypts a list of strings into an opaque token. An empty or nil
// list yields the canonical empty token "" rather than a ciphertext, so
// "never set" and "cleared" stay distinguishable as falsy values.
func (e *Envelope) Seal(values []string) (string, error) {
	if len(values) == 0 {
		return "", nil
	}

	plaintext, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to serialize values: %w", err)
	}

	nonce := make([]byte, e.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("nonce generation failed: %w", err)
	}

	ciphertext := e.gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Open decrypts a token back into its list. Malformed, tampered or
// foreign tokens open to the empty list: corrupted medical data must
// degrade to "nothing disclosed", never crash a responder's request.
func (e *Envelope) Open(token string) []string {
	if token == "" {
		return []string{}
	}

	ciphertext, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return []string{}
	}

	nonceSize := e.gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return []string{}
	}

	nonce, sealed := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := e.gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return []string{}
	}

	var values []string
	if err := json.Unmarshal(plaintext, &values); err != nil {
		return []string{}
	}
	if values == nil {
		values = []string{}
	}
	return values
}
