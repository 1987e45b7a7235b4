package usecase

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// tokenBytes is the entropy of reset and verification tokens.
// 32 bytes yields a 64-character hex string.
const tokenBytes = 32

// NewToken returns a cryptographically random opaque token used for the
// password reset and email verification flows.
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
