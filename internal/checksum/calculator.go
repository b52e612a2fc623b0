package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Calculator computes content checksums.
type Calculator interface {
	Calculate(content []byte) string
}

// SHA256 is a Calculator producing hex-encoded SHA-256 digests.
type SHA256 struct{}

// New creates a SHA-256 calculator.
func New() SHA256 {
	return SHA256{}
}

// Calculate returns the hex-encoded SHA-256 digest of content.
func (SHA256) Calculate(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
