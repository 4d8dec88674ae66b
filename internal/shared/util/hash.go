package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashKey returns a stable, log-safe fingerprint of a secret identifier.
func HashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ShortHash returns the first 12 hex characters of HashKey.
func ShortHash(s string) string {
	return HashKey(s)[:12]
}
