package domain

import (
	interfaces "bb84/internal/domain/interfaces"
	types "bb84/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Bit                     = types.Bit
	Basis                   = types.Basis
	Photon                  = types.Photon
	Role                    = types.Role
	Phase                   = types.Phase
	ParticipantRecord       = types.ParticipantRecord
	Transmission            = types.Transmission
	Comparison              = types.Comparison
	Progress                = types.Progress
	Unset                   = types.Unset
	PhotonsSent             = types.PhotonsSent
	BasisCompared           = types.BasisCompared
	SessionState            = types.SessionState
	Snapshot                = types.Snapshot
	Message                 = types.Message
	SimulationResult        = types.SimulationResult
	EventKind               = types.EventKind
	Event                   = types.Event
	JoinEvent               = types.JoinEvent
	SendPhotonsEvent        = types.SendPhotonsEvent
	EveInterceptEvent       = types.EveInterceptEvent
	BasisComparisonEvent    = types.BasisComparisonEvent
	SendMessageEvent        = types.SendMessageEvent
	ResetEvent              = types.ResetEvent
	Joined                  = types.Joined
	PhotonsReceived         = types.PhotonsReceived
	BasisComparisonComplete = types.BasisComparisonComplete
	SessionResetNotice      = types.SessionResetNotice
	ValidationError         = types.ValidationError
	PhaseSequenceError      = types.PhaseSequenceError
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	SessionService    = interfaces.SessionService
	SimulationService = interfaces.SimulationService
	Handle            = interfaces.Handle
	Notifier          = interfaces.Notifier
	Presence          = interfaces.Presence
	ReportStore       = interfaces.ReportStore
	ServerClient      = interfaces.ServerClient
)

// Re-exported constants so callers need only import domain.
const (
	Rectilinear = types.Rectilinear
	Diagonal    = types.Diagonal

	RoleAlice = types.RoleAlice
	RoleBob   = types.RoleBob
	RoleEve   = types.RoleEve

	PhaseIdle               = types.PhaseIdle
	PhasePhotonTransmission = types.PhasePhotonTransmission
	PhaseBasisComparison    = types.PhaseBasisComparison
	PhaseKeyGeneration      = types.PhaseKeyGeneration
	PhaseMessaging          = types.PhaseMessaging

	KindJoin                    = types.KindJoin
	KindSendPhotons             = types.KindSendPhotons
	KindEveIntercept            = types.KindEveIntercept
	KindBasisComparison         = types.KindBasisComparison
	KindSendMessage             = types.KindSendMessage
	KindSessionReset            = types.KindSessionReset
	KindJoined                  = types.KindJoined
	KindPhotonsReceived         = types.KindPhotonsReceived
	KindEveIntercepted          = types.KindEveIntercepted
	KindBasisComparisonComplete = types.KindBasisComparisonComplete
	KindNewMessage              = types.KindNewMessage
)

// Constructors.
var (
	NewSessionState      = types.NewSessionState
	NewParticipantRecord = types.NewParticipantRecord
)
