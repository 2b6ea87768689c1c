package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores byte values under string keys with an expiry
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// keyVersion changes whenever cleaned output for the same input would differ
const keyVersion = "tweetprep:clean:v1:"

// Key derives a cache key from a namespace (cleaner settings) and raw text
func Key(namespace, text string) string {
	hash := sha256.Sum256([]byte(namespace + "\x00" + text))
	return keyVersion + hex.EncodeToString(hash[:])
}
