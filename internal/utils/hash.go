package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"
)

// HashHeader carries the hex HMAC-SHA256 of a request body.
const HashHeader = "HashSHA256"

// hasherPool holds HMAC-SHA256 instances keyed with the server hash key.
// It must be initialized with InitHasherPool before Hash is used.
var hasherPool sync.Pool

// InitHasherPool keys every pooled hasher with hashKey.
func InitHasherPool(hashKey string) {
	hasherPool = sync.Pool{
		New: func() any {
			return hmac.New(sha256.New, []byte(hashKey))
		},
	}
}

// Hash computes the HMAC-SHA256 of data with a pooled hasher.
func Hash(data []byte) []byte {
	h := hasherPool.Get().(hash.Hash)
	h.Reset()

	h.Write(data)
	sum := h.Sum(nil)

	h.Reset()
	hasherPool.Put(h)

	return sum
}

// HashString computes the hex HMAC-SHA256 of data with hashKey without
// touching the pool. Clients use it to sign request bodies.
func HashString(data string, hashKey string) string {
	return HashBytes([]byte(data), hashKey)
}

// HashBytes is HashString for byte slices.
func HashBytes(data []byte, hashKey string) string {
	hasher := hmac.New(sha256.New, []byte(hashKey))
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

// VerifyHash reports whether hexSum is the pooled HMAC of data.
func VerifyHash(data []byte, hexSum string) bool {
	expected, err := hex.DecodeString(hexSum)
	if err != nil {
		return false
	}
	return hmac.Equal(Hash(data), expected)
}
