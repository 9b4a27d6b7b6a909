package session

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"bb84/internal/crypto"
	"bb84/internal/domain"
	"bb84/internal/protocol/bb84"
)

// limits bounds what a client may submit.
type limits struct {
	defaultEveProb float64
	maxBits        int
}

func sendPhotons(st *domain.SessionState, eng *bb84.Engine, ev domain.SendPhotonsEvent, lim limits) (domain.PhotonsReceived, error) {
	n := len(ev.Bits)
	if n == 0 {
		return domain.PhotonsReceived{}, &domain.ValidationError{Field: "bits", Reason: "must not be empty"}
	}
	if n > lim.maxBits {
		return domain.PhotonsReceived{}, &domain.ValidationError{Field: "bits", Reason: fmt.Sprintf("at most %d allowed", lim.maxBits)}
	}
	if len(ev.Bases) != n {
		return domain.PhotonsReceived{}, &domain.ValidationError{Field: "bases", Reason: fmt.Sprintf("have %d, want %d", len(ev.Bases), n)}
	}
	if err := validBits("bits", ev.Bits); err != nil {
		return domain.PhotonsReceived{}, err
	}
	if err := validBases("bases", ev.Bases); err != nil {
		return domain.PhotonsReceived{}, err
	}
	p := lim.defaultEveProb
	if ev.EveProb != nil {
		p = *ev.EveProb
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return domain.PhotonsReceived{}, &domain.ValidationError{Field: "eve_prob", Reason: "must be within [0, 1]"}
	}

	photons, err := bb84.EncodePhotons(ev.Bits, ev.Bases)
	if err != nil {
		return domain.PhotonsReceived{}, err
	}
	photons, err = eng.Eavesdrop(photons, p)
	if err != nil {
		return domain.PhotonsReceived{}, err
	}

	retire(st.Progress)
	st.Progress = domain.PhotonsSent{Transmission: domain.Transmission{
		Bits:    slices.Clone(ev.Bits),
		Bases:   slices.Clone(ev.Bases),
		Photons: photons,
		EveProb: p,
	}}
	st.Phase = domain.PhasePhotonTransmission
	st.QBER = 0

	return domain.PhotonsReceived{Photons: slices.Clone(photons), Phase: st.Phase}, nil
}

func recordInterception(st *domain.SessionState, ev domain.EveInterceptEvent) error {
	if err := validBits("bits", ev.Bits); err != nil {
		return err
	}
	if err := validBases("bases", ev.Bases); err != nil {
		return err
	}
	if ev.Bits != nil && ev.Bases != nil && len(ev.Bits) != len(ev.Bases) {
		return &domain.ValidationError{Field: "bases", Reason: fmt.Sprintf("have %d, want %d", len(ev.Bases), len(ev.Bits))}
	}
	st.Eve.Bits = slices.Clone(ev.Bits)
	st.Eve.Bases = slices.Clone(ev.Bases)
	return nil
}

func compareBases(st *domain.SessionState, ev domain.BasisComparisonEvent) (domain.BasisComparisonComplete, error) {
	tx, ok := st.TransmissionOf()
	if !ok {
		return domain.BasisComparisonComplete{}, &domain.PhaseSequenceError{
			Operation: string(domain.KindBasisComparison),
			Requires:  string(domain.KindSendPhotons),
			Phase:     st.Phase,
		}
	}
	n := len(tx.Bits)
	if len(ev.BobBases) != n {
		return domain.BasisComparisonComplete{}, &domain.ValidationError{Field: "bob_bases", Reason: fmt.Sprintf("have %d, want %d", len(ev.BobBases), n)}
	}
	if len(ev.BobMeasurements) != n {
		return domain.BasisComparisonComplete{}, &domain.ValidationError{Field: "bob_measurements", Reason: fmt.Sprintf("have %d, want %d", len(ev.BobMeasurements), n)}
	}
	if err := validBases("bob_bases", ev.BobBases); err != nil {
		return domain.BasisComparisonComplete{}, err
	}
	if err := validBits("bob_measurements", ev.BobMeasurements); err != nil {
		return domain.BasisComparisonComplete{}, err
	}

	matched, err := bb84.MatchedIndices(tx.Bases, ev.BobBases)
	if err != nil {
		return domain.BasisComparisonComplete{}, err
	}
	qber, err := bb84.QBER(tx.Bits, ev.BobMeasurements, matched)
	if err != nil {
		return domain.BasisComparisonComplete{}, err
	}
	aliceSifted, err := bb84.Project(tx.Bits, matched)
	if err != nil {
		return domain.BasisComparisonComplete{}, err
	}
	bobSifted, err := bb84.Project(ev.BobMeasurements, matched)
	if err != nil {
		return domain.BasisComparisonComplete{}, err
	}
	final := bb84.ErrorCorrect(aliceSifted, qber)

	cmp := domain.Comparison{
		BobBases:        slices.Clone(ev.BobBases),
		BobMeasurements: slices.Clone(ev.BobMeasurements),
		MatchedIndices:  matched,
		AliceSifted:     aliceSifted,
		BobSifted:       bobSifted,
		FinalKey:        final,
		QBER:            qber,
		KeyFingerprint:  crypto.KeyFingerprint(final),
	}

	if prev, ok := st.Progress.(domain.BasisCompared); ok {
		wipeComparison(prev.Comparison)
	}
	st.Progress = domain.BasisCompared{Transmission: tx, Comparison: cmp}
	st.Phase = domain.PhaseKeyGeneration
	st.QBER = qber

	return domain.BasisComparisonComplete{
		MatchedIndices: slices.Clone(matched),
		QBER:           qber,
		SiftedKey:      slices.Clone(aliceSifted),
		FinalKey:       slices.Clone(final),
		KeyFingerprint: cmp.KeyFingerprint,
		Phase:          st.Phase,
	}, nil
}

func postMessage(st *domain.SessionState, ev domain.SendMessageEvent, msg domain.Message) (domain.Message, error) {
	if strings.TrimSpace(ev.Sender) == "" {
		return domain.Message{}, &domain.ValidationError{Field: "sender", Reason: "must not be empty"}
	}
	st.Messages = append(st.Messages, msg)
	if st.Phase == domain.PhaseKeyGeneration {
		st.Phase = domain.PhaseMessaging
	}
	return msg, nil
}

// reset returns st to idle. The session id survives a reset.
func reset(st *domain.SessionState) {
	retire(st.Progress)
	crypto.WipeBits(st.Eve.Bits)
	*st = *domain.NewSessionState(st.ID)
}

// retire wipes the key material held by p before it is replaced.
func retire(p domain.Progress) {
	switch p := p.(type) {
	case domain.PhotonsSent:
		crypto.WipeBits(p.Transmission.Bits)
	case domain.BasisCompared:
		crypto.WipeBits(p.Transmission.Bits)
		wipeComparison(p.Comparison)
	case domain.Unset, nil:
	}
}

func wipeComparison(c domain.Comparison) {
	crypto.WipeBits(c.BobMeasurements)
	crypto.WipeBits(c.AliceSifted)
	crypto.WipeBits(c.BobSifted)
	crypto.WipeBits(c.FinalKey)
}

func validBits(field string, bits []domain.Bit) error {
	for i, b := range bits {
		if !b.Valid() {
			return &domain.ValidationError{Field: field, Reason: fmt.Sprintf("element %d is %d, want 0 or 1", i, b)}
		}
	}
	return nil
}

func validBases(field string, bases []domain.Basis) error {
	for i, b := range bases {
		if !b.Valid() {
			return &domain.ValidationError{Field: field, Reason: fmt.Sprintf("element %d is %d, want 0 or 1", i, int(b))}
		}
	}
	return nil
}
