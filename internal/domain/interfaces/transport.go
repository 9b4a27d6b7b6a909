package interfaces

import domaintypes "bb84/internal/domain/types"

// Handle is a participant's live connection. Send must not block on a slow
// peer; it either queues the payload or fails.
type Handle interface {
	Send(payload []byte) error
	Close() error
}

// Notifier delivers outbound events to connected participants. Delivery is
// best effort; failures are handled below this interface.
type Notifier interface {
	Broadcast(kind domaintypes.EventKind, data any, exclude string)
	Send(identity string, kind domaintypes.EventKind, data any)
}

// Presence lists the identities that currently hold a connection.
type Presence interface {
	Identities() []string
}
