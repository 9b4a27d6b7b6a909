package crypto

import (
	"runtime"

	"bb84/internal/domain"
)

// Wipe zeroes b in place. Copies the runtime made earlier are not reached.
//
//go:noinline
func Wipe(b []byte) { zero(b) }

// WipeBits zeroes key bits in place.
//
//go:noinline
func WipeBits(bits []domain.Bit) { zero(bits) }

func zero[T ~byte | ~int](s []T) {
	clear(s)
	runtime.KeepAlive(s)
}
