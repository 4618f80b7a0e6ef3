package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// APITokenLength is the number of hex characters of a generated API key.
const APITokenLength = 40

// GenerateAPIKey returns a random 40 character hex key.
func GenerateAPIKey() (string, error) {
	b := make([]byte, APITokenLength/2)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return hex.EncodeToString(b), nil
}
