// Package cache implements the caller-side evidence cache contract. The
// engine itself is stateless; callers cache FindingEvidence keyed by
// (tab, finding) with a staleness window.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the evidence cache interface
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a tab identifier and a finding quote
func Key(tab, quote string) string {
	hash := sha256.Sum256([]byte(tab + "\x00" + quote))
	return "attestor:v1:" + hex.EncodeToString(hash[:])
}
