package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandomToken returns n random bytes hex-encoded.
func GenerateRandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
