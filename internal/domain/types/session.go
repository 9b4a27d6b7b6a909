package types

import "slices"

// ParticipantRecord is the status view of one participant. A nil slice means
// the phase that fills it has not run yet and is encoded as null.
type ParticipantRecord struct {
	UserID       string  `json:"user_id"`
	UserType     Role    `json:"user_type"`
	Bits         []Bit   `json:"bits"`
	Bases        []Basis `json:"bases"`
	Measurements []Bit   `json:"measurements"`
	SiftedKey    []Bit   `json:"sifted_key"`
	FinalKey     []Bit   `json:"final_key"`
}

// NewParticipantRecord returns an empty record for role.
func NewParticipantRecord(role Role) ParticipantRecord {
	return ParticipantRecord{UserID: string(role), UserType: role}
}

// Clone returns a deep copy of r.
func (r ParticipantRecord) Clone() ParticipantRecord {
	r.Bits = slices.Clone(r.Bits)
	r.Bases = slices.Clone(r.Bases)
	r.Measurements = slices.Clone(r.Measurements)
	r.SiftedKey = slices.Clone(r.SiftedKey)
	r.FinalKey = slices.Clone(r.FinalKey)
	return r
}

// Transmission is what Alice committed to when she sent her photons, plus the
// photons as they left the channel (after any interception).
type Transmission struct {
	Bits    []Bit
	Bases   []Basis
	Photons []Photon
	EveProb float64
}

// Comparison is the outcome of basis reconciliation between Alice and Bob.
type Comparison struct {
	BobBases        []Basis
	BobMeasurements []Bit
	MatchedIndices  []int
	AliceSifted     []Bit
	BobSifted       []Bit
	FinalKey        []Bit
	QBER            float64
	KeyFingerprint  string
}

// Progress is how far Alice and Bob have got in the active run. It is one of
// Unset, PhotonsSent or BasisCompared; a Comparison never exists without the
// Transmission it was computed against.
type Progress interface {
	isProgress()
}

// Unset is the progress of a fresh or reset session.
type Unset struct{}

// PhotonsSent is the progress after Alice transmitted.
type PhotonsSent struct {
	Transmission Transmission
}

// BasisCompared is the progress after Bob's bases were compared with Alice's.
type BasisCompared struct {
	Transmission Transmission
	Comparison   Comparison
}

func (Unset) isProgress()         {}
func (PhotonsSent) isProgress()   {}
func (BasisCompared) isProgress() {}

// SessionState is the single mutable record of the in-progress run.
type SessionState struct {
	ID       string
	Phase    Phase
	QBER     float64
	Progress Progress
	Eve      ParticipantRecord
	Messages []Message
}

// NewSessionState returns an idle session with the given id.
func NewSessionState(id string) *SessionState {
	return &SessionState{
		ID:       id,
		Phase:    PhaseIdle,
		Progress: Unset{},
		Eve:      NewParticipantRecord(RoleEve),
	}
}

// TransmissionOf returns the transmission of the active run, if any.
func (s *SessionState) TransmissionOf() (Transmission, bool) {
	switch p := s.Progress.(type) {
	case PhotonsSent:
		return p.Transmission, true
	case BasisCompared:
		return p.Transmission, true
	default:
		return Transmission{}, false
	}
}

// Alice returns Alice's record as derived from the run's progress.
func (s *SessionState) Alice() ParticipantRecord {
	r := NewParticipantRecord(RoleAlice)
	switch p := s.Progress.(type) {
	case PhotonsSent:
		r.Bits = p.Transmission.Bits
		r.Bases = p.Transmission.Bases
	case BasisCompared:
		r.Bits = p.Transmission.Bits
		r.Bases = p.Transmission.Bases
		r.SiftedKey = p.Comparison.AliceSifted
		r.FinalKey = p.Comparison.FinalKey
	}
	return r.Clone()
}

// Bob returns Bob's record as derived from the run's progress.
func (s *SessionState) Bob() ParticipantRecord {
	r := NewParticipantRecord(RoleBob)
	if p, ok := s.Progress.(BasisCompared); ok {
		r.Bases = p.Comparison.BobBases
		r.Measurements = p.Comparison.BobMeasurements
		r.SiftedKey = p.Comparison.BobSifted
		r.FinalKey = p.Comparison.FinalKey
	}
	return r.Clone()
}

// Snapshot is the status view of the session returned to callers.
type Snapshot struct {
	SessionID      string            `json:"session_id"`
	Phase          Phase             `json:"phase"`
	QBER           float64           `json:"qber"`
	ConnectedUsers []string          `json:"connected_users"`
	AliceData      ParticipantRecord `json:"alice_data"`
	BobData        ParticipantRecord `json:"bob_data"`
	EveData        ParticipantRecord `json:"eve_data"`
}
