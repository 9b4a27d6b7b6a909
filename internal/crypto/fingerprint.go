package crypto

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"bb84/internal/domain"
)

// KeyFingerprint returns a short hex fingerprint of a key bit string.
//
// It hashes one byte per bit with BLAKE2b-256 and truncates to 8 bytes
// (16 hex chars). An empty key has an empty fingerprint.
func KeyFingerprint(key []domain.Bit) string {
	if len(key) == 0 {
		return ""
	}
	raw := make([]byte, len(key))
	for i, b := range key {
		raw[i] = byte(b)
	}
	sum := blake2b.Sum256(raw)
	Wipe(raw)
	return hex.EncodeToString(sum[:8])
}
