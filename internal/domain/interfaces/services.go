package interfaces

import domaintypes "bb84/internal/domain/types"

// SessionService drives the shared BB84 session through its phases.
type SessionService interface {
	SendPhotons(ev domaintypes.SendPhotonsEvent) (domaintypes.PhotonsReceived, error)
	RecordInterception(ev domaintypes.EveInterceptEvent) error
	CompareBases(ev domaintypes.BasisComparisonEvent) (domaintypes.BasisComparisonComplete, error)
	PostMessage(ev domaintypes.SendMessageEvent) (domaintypes.Message, error)
	Reset()
	Status() domaintypes.Snapshot
	Messages() []domaintypes.Message
}

// SimulationService runs the whole protocol once, outside the shared session.
type SimulationService interface {
	Run(nBits int, eveProb float64) (domaintypes.SimulationResult, error)
}
