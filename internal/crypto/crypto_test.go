package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bb84/internal/crypto"
	"bb84/internal/domain"
)

func TestOTP_RoundTrip(t *testing.T) {
	key := []domain.Bit{1, 0, 1, 1, 0}
	ct := crypto.EncryptOTP("hello, bob", key)
	require.NotEqual(t, "hello, bob", ct)

	pt, err := crypto.DecryptOTP(ct, key)
	require.NoError(t, err)
	require.Equal(t, "hello, bob", pt)
}

func TestOTP_KnownVector(t *testing.T) {
	// 'a' (0x61) ^ 1 = 0x60 '`', 'b' ^ 0 = 'b'.
	ct := crypto.EncryptOTP("ab", []domain.Bit{1, 0})
	require.Equal(t, crypto.B64([]byte("`b")), ct)
}

func TestOTP_EmptyKey(t *testing.T) {
	require.Equal(t, "plain", crypto.EncryptOTP("plain", nil))

	_, err := crypto.DecryptOTP("cGxhaW4=", nil)
	require.ErrorIs(t, err, crypto.ErrEmptyKey)
}

func TestOTP_BadCiphertext(t *testing.T) {
	_, err := crypto.DecryptOTP("not base64!!", []domain.Bit{1})
	require.Error(t, err)
}

func TestKeyFingerprint(t *testing.T) {
	a := crypto.KeyFingerprint([]domain.Bit{1, 0, 1})
	b := crypto.KeyFingerprint([]domain.Bit{1, 0, 1})
	c := crypto.KeyFingerprint([]domain.Bit{1, 0, 0})

	require.Len(t, a, 16)
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Empty(t, crypto.KeyFingerprint(nil))
}

func TestParseFormatBits(t *testing.T) {
	bits, err := crypto.ParseBits("10 11,0")
	require.NoError(t, err)
	require.Equal(t, []domain.Bit{1, 0, 1, 1, 0}, bits)
	require.Equal(t, "10110", crypto.FormatBits(bits))

	_, err = crypto.ParseBits("102")
	require.Error(t, err)
}

func TestWipe(t *testing.T) {
	b := []byte{1, 2, 3}
	crypto.Wipe(b)
	require.Equal(t, []byte{0, 0, 0}, b)

	bits := []domain.Bit{1, 1}
	crypto.WipeBits(bits)
	require.Equal(t, []domain.Bit{0, 0}, bits)
}
