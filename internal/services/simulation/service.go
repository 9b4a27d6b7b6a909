package simulation

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"bb84/internal/domain"
	"bb84/internal/metrics"
	"bb84/internal/protocol/bb84"
)

// ErrSimulationFailed wraps any failure inside a run, including panics.
var ErrSimulationFailed = errors.New("simulation failed")

// Service runs stateless simulations.
type Service struct {
	engine  *bb84.Engine
	maxBits int
	log     zerolog.Logger
	metrics *metrics.Collector
}

var _ domain.SimulationService = (*Service)(nil)

// New constructs a simulation service. maxBits <= 0 means unbounded.
func New(engine *bb84.Engine, maxBits int, log zerolog.Logger, m *metrics.Collector) *Service {
	return &Service{
		engine:  engine,
		maxBits: maxBits,
		log:     log.With().Str("component", "simulation").Logger(),
		metrics: m,
	}
}

// Run generates Alice's bits and bases, passes the photons through an
// eavesdropper intercepting with probability eveProb, measures them in Bob's
// random bases, then sifts, estimates the QBER and corrects.
//
// Bad arguments return a *domain.ValidationError. Anything that goes wrong
// past validation is reported as ErrSimulationFailed.
func (s *Service) Run(nBits int, eveProb float64) (res domain.SimulationResult, err error) {
	if nBits <= 0 {
		return res, &domain.ValidationError{Field: "n_bits", Reason: "must be positive"}
	}
	if s.maxBits > 0 && nBits > s.maxBits {
		return res, &domain.ValidationError{Field: "n_bits", Reason: fmt.Sprintf("at most %d allowed", s.maxBits)}
	}
	if math.IsNaN(eveProb) || eveProb < 0 || eveProb > 1 {
		return res, &domain.ValidationError{Field: "eve_prob", Reason: "must be within [0, 1]"}
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrSimulationFailed, r)
		}
		s.metrics.SimulationRun(err)
		if err != nil {
			s.log.Error().Err(err).Int("n_bits", nBits).Float64("eve_prob", eveProb).Msg("simulation failed")
			res = domain.SimulationResult{}
		}
	}()

	res, err = s.run(nBits, eveProb)
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrSimulationFailed, err)
	}
	s.log.Debug().
		Int("n_bits", nBits).
		Float64("eve_prob", eveProb).
		Float64("qber", res.QBER).
		Int("final_key_bits", len(res.FinalKey)).
		Msg("simulation complete")
	return res, nil
}

func (s *Service) run(n int, eveProb float64) (domain.SimulationResult, error) {
	var res domain.SimulationResult
	eng := s.engine

	aliceBits, err := eng.GenerateBits(n)
	if err != nil {
		return res, err
	}
	aliceBases, err := eng.GenerateBases(n)
	if err != nil {
		return res, err
	}
	photons, err := bb84.EncodePhotons(aliceBits, aliceBases)
	if err != nil {
		return res, err
	}
	photons, err = eng.Eavesdrop(photons, eveProb)
	if err != nil {
		return res, err
	}
	bobBases, err := eng.GenerateBases(n)
	if err != nil {
		return res, err
	}
	bobMeas, err := eng.MeasurePhotons(photons, bobBases)
	if err != nil {
		return res, err
	}
	matched, err := bb84.MatchedIndices(aliceBases, bobBases)
	if err != nil {
		return res, err
	}
	aliceSifted, err := bb84.Project(aliceBits, matched)
	if err != nil {
		return res, err
	}
	bobSifted, err := bb84.Project(bobMeas, matched)
	if err != nil {
		return res, err
	}
	qber, err := bb84.QBER(aliceBits, bobMeas, matched)
	if err != nil {
		return res, err
	}

	return domain.SimulationResult{
		AliceBits:       aliceBits,
		AliceBases:      aliceBases,
		BobBases:        bobBases,
		BobMeasurements: bobMeas,
		MatchedIndices:  matched,
		AliceSifted:     aliceSifted,
		BobSifted:       bobSifted,
		QBER:            qber,
		FinalKey:        bb84.ErrorCorrect(aliceSifted, qber),
		EveIntercepted:  eveProb > 0,
	}, nil
}
