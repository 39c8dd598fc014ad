package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const stateNonceSize = 16

// GenerateState builds an OAuth state value of the form "nonce.payload",
// where payload carries round-trip metadata such as the requested flow.
func GenerateState(data map[string]string) (string, error) {
	nonce := make([]byte, stateNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate state nonce: %w", err)
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode state payload: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(nonce) + "." +
		base64.RawURLEncoding.EncodeToString(payload), nil
}

// DecodeState recovers the metadata map from a state value produced by
// GenerateState.
func DecodeState(state string) (map[string]string, error) {
	_, encoded, ok := strings.Cut(state, ".")
	if !ok {
		return nil, errors.New("malformed state value")
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode state payload: %w", err)
	}

	var data map[string]string
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse state payload: %w", err)
	}
	return data, nil
}
