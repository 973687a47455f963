// AngelaMos | 2026
// tokens.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("read random: %w", err)
	}
	return b, nil
}

// GenerateRefreshToken returns 256 random bits, URL-safe base64 without
// padding. Only its HashToken digest is persisted.
func GenerateRefreshToken() (string, error) {
	b, err := randomBytes(32)
	if err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateShareToken returns 128 bits of randomness as 32 hex characters.
func GenerateShareToken() (string, error) {
	b, err := randomBytes(16)
	if err != nil {
		return "", fmt.Errorf("generate share token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
