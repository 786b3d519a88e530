package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
)

const (
	// tokenBytes is the entropy of a freshly issued credential
	tokenBytes = 32

	// fingerprintLen is the number of base58 characters shown when
	// referring to a token in logs or listings
	fingerprintLen = 8
)

// GenerateToken generates a cryptographically secure random credential.
// Returns the token (hex string, handed to the client exactly once) and
// its SHA256 hex hash (the only form ever stored).
func GenerateToken() (token string, tokenHash string, err error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate token: %w", err)
	}

	token = hex.EncodeToString(buf)
	return token, HashToken(token), nil
}

// HashToken computes the SHA256 hex digest of a token. Lookups compare
// hashes so raw credentials never touch the database.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Fingerprint derives a short base58 identifier from a token hash,
// suitable for display without revealing the credential.
func Fingerprint(tokenHash string) string {
	encoded := base58.Encode([]byte(tokenHash))
	if len(encoded) > fingerprintLen {
		encoded = encoded[:fingerprintLen]
	}
	return encoded
}
