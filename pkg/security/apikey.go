package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// API keys are issued as "hrk_<hex>". The plaintext is shown once; only
// the SHA-256 digest is persisted, so lookups stay indexable.
const apiKeyPrefix = "hrk_"

// GenerateAPIKey returns a new plaintext key and its stored hash.
func GenerateAPIKey() (key, hash string, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	key = apiKeyPrefix + hex.EncodeToString(buf)
	return key, HashAPIKey(key), nil
}

// HashAPIKey returns the hex SHA-256 digest of a plaintext key.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// ValidAPIKeyFormat reports whether a presented token even looks like an
// issued key, so obviously bogus tokens never reach the store.
func ValidAPIKeyFormat(key string) bool {
	if !strings.HasPrefix(key, apiKeyPrefix) {
		return false
	}
	_, err := hex.DecodeString(strings.TrimPrefix(key, apiKeyPrefix))
	return err == nil && len(key) == len(apiKeyPrefix)+64
}

// ConstantTimeEqual compares two hashes without leaking timing.
func ConstantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
