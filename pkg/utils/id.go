package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateID returns a random hex string of n bytes (2n characters).
func GenerateID(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
