package types

import "time"

// Message is one chat message exchanged after key agreement. Messages are
// immutable once appended to the session.
type Message struct {
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Encrypted bool      `json:"encrypted"`
	Timestamp time.Time `json:"timestamp"`
}

// SimulationResult holds every artifact of a one-shot BB84 run.
type SimulationResult struct {
	AliceBits       []Bit   `json:"alice_bits"`
	AliceBases      []Basis `json:"alice_bases"`
	BobBases        []Basis `json:"bob_bases"`
	BobMeasurements []Bit   `json:"bob_measurements"`
	MatchedIndices  []int   `json:"matched_indices"`
	AliceSifted     []Bit   `json:"alice_sifted"`
	BobSifted       []Bit   `json:"bob_sifted"`
	QBER            float64 `json:"qber"`
	FinalKey        []Bit   `json:"final_key"`
	EveIntercepted  bool    `json:"eve_intercepted"`
}
