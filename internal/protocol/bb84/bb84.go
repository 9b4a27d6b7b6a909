package bb84

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"bb84/internal/domain"
)

const (
	// LowErrorThreshold is the QBER below which the sifted key is kept whole.
	LowErrorThreshold = 0.1
	// HighErrorThreshold is the QBER at or above which only every third bit is kept.
	HighErrorThreshold = 0.3
)

var (
	ErrLengthMismatch  = errors.New("bb84: sequence lengths differ")
	ErrInvalidSymbol   = errors.New("bb84: value out of range")
	ErrBadProbability  = errors.New("bb84: probability must be within [0, 1]")
	ErrIndexOutOfRange = errors.New("bb84: index out of range")
	ErrNegativeCount   = errors.New("bb84: count must not be negative")
)

// Engine runs the randomised protocol steps. It is safe for concurrent use.
type Engine struct {
	rng Rand
}

// New returns an engine seeded from the clock.
func New() *Engine { return NewWithRand(newTimeSeeded()) }

// NewSeeded returns an engine whose draws are fully determined by seed.
func NewSeeded(seed int64) *Engine {
	return NewWithRand(rand.New(rand.NewSource(seed)))
}

// NewWithRand returns an engine drawing from r.
func NewWithRand(r Rand) *Engine {
	return &Engine{rng: &lockedRand{src: r}}
}

// GenerateBits draws n independent uniform bits.
func (e *Engine) GenerateBits(n int) ([]domain.Bit, error) {
	if n < 0 {
		return nil, ErrNegativeCount
	}
	out := make([]domain.Bit, n)
	for i := range out {
		out[i] = e.bit()
	}
	return out, nil
}

// GenerateBases draws n independent uniform bases.
func (e *Engine) GenerateBases(n int) ([]domain.Basis, error) {
	if n < 0 {
		return nil, ErrNegativeCount
	}
	out := make([]domain.Basis, n)
	for i := range out {
		out[i] = e.basis()
	}
	return out, nil
}

// MeasurePhotons reads each photon in the matching measurement basis. A basis
// mismatch yields a fresh uniform bit.
func (e *Engine) MeasurePhotons(photons []domain.Photon, bases []domain.Basis) ([]domain.Bit, error) {
	if len(photons) != len(bases) {
		return nil, fmt.Errorf("measure %d photons with %d bases: %w", len(photons), len(bases), ErrLengthMismatch)
	}
	if err := checkPhotons(photons); err != nil {
		return nil, err
	}
	if err := checkBases(bases); err != nil {
		return nil, err
	}
	out := make([]domain.Bit, len(photons))
	for i, p := range photons {
		out[i] = e.measure(p, bases[i])
	}
	return out, nil
}

// Eavesdrop runs an intercept-resend attack. Each photon is independently
// intercepted with probability interceptProb; an intercepted photon is
// measured in a random basis and resent in another, independently drawn,
// random basis. Photons that are not intercepted pass through unchanged.
func (e *Engine) Eavesdrop(photons []domain.Photon, interceptProb float64) ([]domain.Photon, error) {
	if math.IsNaN(interceptProb) || interceptProb < 0 || interceptProb > 1 {
		return nil, fmt.Errorf("intercept probability %v: %w", interceptProb, ErrBadProbability)
	}
	if err := checkPhotons(photons); err != nil {
		return nil, err
	}
	out := make([]domain.Photon, len(photons))
	for i, p := range photons {
		if e.rng.Float64() >= interceptProb {
			out[i] = p
			continue
		}
		measured := e.measure(p, e.basis())
		out[i] = encode(measured, e.basis())
	}
	return out, nil
}

func (e *Engine) bit() domain.Bit     { return domain.Bit(e.rng.Intn(2)) }
func (e *Engine) basis() domain.Basis { return domain.Basis(e.rng.Intn(2)) }

func (e *Engine) measure(p domain.Photon, basis domain.Basis) domain.Bit {
	if p.Basis() == basis {
		return p.Bit()
	}
	return e.bit()
}

// EncodePhotons prepares one photon per (bit, basis) pair.
func EncodePhotons(bits []domain.Bit, bases []domain.Basis) ([]domain.Photon, error) {
	if len(bits) != len(bases) {
		return nil, fmt.Errorf("encode %d bits with %d bases: %w", len(bits), len(bases), ErrLengthMismatch)
	}
	if err := checkBits(bits); err != nil {
		return nil, err
	}
	if err := checkBases(bases); err != nil {
		return nil, err
	}
	out := make([]domain.Photon, len(bits))
	for i, b := range bits {
		out[i] = encode(b, bases[i])
	}
	return out, nil
}

func encode(b domain.Bit, basis domain.Basis) domain.Photon {
	if basis == domain.Diagonal {
		return domain.Photon(b) + 2
	}
	return domain.Photon(b)
}

// MatchedIndices returns, in ascending order, every position where a and b agree.
func MatchedIndices(a, b []domain.Basis) ([]int, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("compare %d bases with %d bases: %w", len(a), len(b), ErrLengthMismatch)
	}
	out := make([]int, 0, len(a)/2+1)
	for i := range a {
		if a[i] == b[i] {
			out = append(out, i)
		}
	}
	return out, nil
}

// Project picks values at indices, in the order given.
func Project[T any](values []T, indices []int) ([]T, error) {
	out := make([]T, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(values) {
			return nil, fmt.Errorf("index %d of %d values: %w", i, len(values), ErrIndexOutOfRange)
		}
		out = append(out, values[i])
	}
	return out, nil
}

// QBER returns the fraction of indices at which reference and observed
// disagree. An empty index set has a rate of 0.
func QBER(reference, observed []domain.Bit, indices []int) (float64, error) {
	if len(indices) == 0 {
		return 0, nil
	}
	errs := 0
	for _, i := range indices {
		if i < 0 || i >= len(reference) || i >= len(observed) {
			return 0, fmt.Errorf("index %d: %w", i, ErrIndexOutOfRange)
		}
		if reference[i] != observed[i] {
			errs++
		}
	}
	return float64(errs) / float64(len(indices)), nil
}

// ErrorCorrect shortens the sifted key according to the error rate: below
// LowErrorThreshold it is kept whole, below HighErrorThreshold every second
// bit is kept, otherwise every third. This only imitates the key shrinkage of
// real reconciliation; it neither corrects errors nor amplifies privacy.
func ErrorCorrect(sifted []domain.Bit, qber float64) []domain.Bit {
	switch {
	case qber < LowErrorThreshold:
		return every(sifted, 1)
	case qber < HighErrorThreshold:
		return every(sifted, 2)
	default:
		return every(sifted, 3)
	}
}

func every(bits []domain.Bit, stride int) []domain.Bit {
	out := make([]domain.Bit, 0, (len(bits)+stride-1)/stride)
	for i := 0; i < len(bits); i += stride {
		out = append(out, bits[i])
	}
	return out
}

func checkBits(bits []domain.Bit) error {
	for i, b := range bits {
		if !b.Valid() {
			return fmt.Errorf("bit %d is %d: %w", i, b, ErrInvalidSymbol)
		}
	}
	return nil
}

func checkBases(bases []domain.Basis) error {
	for i, b := range bases {
		if !b.Valid() {
			return fmt.Errorf("basis %d is %d: %w", i, int(b), ErrInvalidSymbol)
		}
	}
	return nil
}

func checkPhotons(photons []domain.Photon) error {
	for i, p := range photons {
		if !p.Valid() {
			return fmt.Errorf("photon %d is %d: %w", i, p, ErrInvalidSymbol)
		}
	}
	return nil
}
