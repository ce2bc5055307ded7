// Package cache stores computed embedding vectors so identical text never
// hits the backend twice. Determinism of verification depends on this:
// a cache hit must return the exact vector that was stored.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// VectorCache is the interface for embedding vector storage.
type VectorCache interface {
	Get(key string) ([]float32, bool)
	Set(key string, vector []float32, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key for one text under one backend and model.
// Different models embed into different spaces, so they never share keys.
func Key(provider, model, text string) string {
	hash := sha256.Sum256([]byte(provider + "\x00" + model + "\x00" + text))
	return "veridict:v1:" + hex.EncodeToString(hash[:])
}
