package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// NewTokenID returns 128 random bits, hex encoded.
func NewTokenID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
