package interfaces

import (
	"context"

	domaintypes "bb84/internal/domain/types"
)

// ServerClient is how CLI commands talk to a running bb84 server, all with context.
type ServerClient interface {
	Status(ctx context.Context) (domaintypes.Snapshot, error)
	Reset(ctx context.Context) error
	PostMessage(ctx context.Context, msg domaintypes.SendMessageEvent) error
	Messages(ctx context.Context) ([]domaintypes.Message, error)
	Simulate(ctx context.Context, nBits int, eveProb float64) (domaintypes.SimulationResult, error)
}
