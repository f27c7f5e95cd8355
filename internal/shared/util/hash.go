package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// OwnerKey returns a stable, path-safe hex digest of an owner id.
func OwnerKey(owner string) string {
	sum := sha256.Sum256([]byte(owner))
	return hex.EncodeToString(sum[:])
}

// ShortKey returns the first n hex characters of OwnerKey(s).
func ShortKey(s string, n int) string {
	key := OwnerKey(s)
	if n <= 0 || n >= len(key) {
		return key
	}
	return key[:n]
}
