package crypto

import (
	"errors"
	"fmt"

	"bb84/internal/domain"
)

// ErrEmptyKey is returned when decrypting without key material.
var ErrEmptyKey = errors.New("crypto: empty key")

// EncryptOTP XORs byte i of plaintext with key bit i mod len(key) and returns
// the result base64 encoded. With an empty key the plaintext is returned as
// is, matching clients that send in the clear before a key exists.
func EncryptOTP(plaintext string, key []domain.Bit) string {
	if len(key) == 0 {
		return plaintext
	}
	return B64(xorBits([]byte(plaintext), key))
}

// DecryptOTP reverses EncryptOTP.
func DecryptOTP(ciphertext string, key []domain.Bit) (string, error) {
	if len(key) == 0 {
		return "", ErrEmptyKey
	}
	raw, err := UnB64(ciphertext)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}
	pt := xorBits(raw, key)
	defer Wipe(pt)
	return string(pt), nil
}

func xorBits(in []byte, key []domain.Bit) []byte {
	out := make([]byte, len(in))
	for i, c := range in {
		out[i] = c ^ byte(key[i%len(key)])
	}
	return out
}

// ParseBits reads a key written as a string of '0' and '1' characters, the
// way keys are shown to users.
func ParseBits(s string) ([]domain.Bit, error) {
	out := make([]domain.Bit, 0, len(s))
	for i, r := range s {
		switch r {
		case '0':
			out = append(out, 0)
		case '1':
			out = append(out, 1)
		case ' ', ',':
		default:
			return nil, fmt.Errorf("key character %d is %q, want 0 or 1", i, r)
		}
	}
	return out, nil
}

// FormatBits renders a key as a string of '0' and '1' characters.
func FormatBits(bits []domain.Bit) string {
	b := make([]byte, len(bits))
	for i, v := range bits {
		b[i] = '0' + byte(v)
	}
	return string(b)
}
