package bb84

import (
	"math/rand"
	"sync"
	"time"
)

// Rand is the source of randomness the engine draws from.
// *math/rand.Rand satisfies it.
type Rand interface {
	// Intn returns a uniform value in [0, n).
	Intn(n int) int
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
}

// lockedRand serialises access to a Rand that is not safe for concurrent use.
type lockedRand struct {
	mu  sync.Mutex
	src Rand
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Intn(n)
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float64()
}

func newTimeSeeded() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
