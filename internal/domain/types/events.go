package types

import "encoding/json"

// EventKind names an inbound or outbound event on the wire.
type EventKind string

// Inbound kinds.
const (
	KindJoin            EventKind = "join"
	KindSendPhotons     EventKind = "alice_send_photons"
	KindEveIntercept    EventKind = "eve_intercept"
	KindBasisComparison EventKind = "basis_comparison"
	KindSendMessage     EventKind = "send_message"
	KindSessionReset    EventKind = "session_reset"
)

// Outbound kinds. KindSessionReset is used in both directions.
const (
	KindJoined                  EventKind = "joined"
	KindPhotonsReceived         EventKind = "photons_received"
	KindEveIntercepted          EventKind = "eve_intercepted"
	KindBasisComparisonComplete EventKind = "basis_comparison_complete"
	KindNewMessage              EventKind = "new_message"
)

// Event is an inbound client event. The set of implementations is closed:
// JoinEvent, SendPhotonsEvent, EveInterceptEvent, BasisComparisonEvent,
// SendMessageEvent and ResetEvent.
type Event interface {
	Kind() EventKind
	isEvent()
}

// JoinEvent binds the sending connection to a participant identity.
type JoinEvent struct {
	UserID string `json:"user_id"`
}

// SendPhotonsEvent is Alice committing to bits and bases. A nil EveProb means
// the server default applies.
type SendPhotonsEvent struct {
	Bits    []Bit    `json:"bits"`
	Bases   []Basis  `json:"bases"`
	EveProb *float64 `json:"eve_prob,omitempty"`
}

// EveInterceptEvent records what Eve claims to have measured. Raw keeps the
// payload as received so it can be relayed untouched.
type EveInterceptEvent struct {
	Bits  []Bit           `json:"bits"`
	Bases []Basis         `json:"bases"`
	Raw   json.RawMessage `json:"-"`
}

// BasisComparisonEvent is Bob announcing his bases and measurement results.
type BasisComparisonEvent struct {
	BobBases        []Basis `json:"bob_bases"`
	BobMeasurements []Bit   `json:"bob_measurements"`
}

// SendMessageEvent posts a chat message.
type SendMessageEvent struct {
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Encrypted bool   `json:"encrypted"`
}

// ResetEvent asks for the session to return to idle.
type ResetEvent struct{}

func (JoinEvent) Kind() EventKind            { return KindJoin }
func (SendPhotonsEvent) Kind() EventKind     { return KindSendPhotons }
func (EveInterceptEvent) Kind() EventKind    { return KindEveIntercept }
func (BasisComparisonEvent) Kind() EventKind { return KindBasisComparison }
func (SendMessageEvent) Kind() EventKind     { return KindSendMessage }
func (ResetEvent) Kind() EventKind           { return KindSessionReset }

func (JoinEvent) isEvent()            {}
func (SendPhotonsEvent) isEvent()     {}
func (EveInterceptEvent) isEvent()    {}
func (BasisComparisonEvent) isEvent() {}
func (SendMessageEvent) isEvent()     {}
func (ResetEvent) isEvent()           {}

// Joined acknowledges a join to the joining connection only.
type Joined struct {
	UserID string `json:"user_id"`
}

// PhotonsReceived carries the photons that reached the far end of the channel.
type PhotonsReceived struct {
	Photons []Photon `json:"photons"`
	Phase   Phase    `json:"phase"`
}

// BasisComparisonComplete summarises sifting and error correction.
type BasisComparisonComplete struct {
	MatchedIndices []int   `json:"matched_indices"`
	QBER           float64 `json:"qber"`
	SiftedKey      []Bit   `json:"sifted_key"`
	FinalKey       []Bit   `json:"final_key"`
	KeyFingerprint string  `json:"key_fingerprint"`
	Phase          Phase   `json:"phase"`
}

// SessionResetNotice tells participants the session went back to idle.
type SessionResetNotice struct {
	Phase Phase `json:"phase"`
}
