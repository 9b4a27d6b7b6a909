package router

import (
	"github.com/rs/zerolog"

	"bb84/internal/domain"
)

// Sender is the part of the connection registry the Publisher writes to.
type Sender interface {
	Send(identity string, payload []byte) error
	Broadcast(payload []byte, exclude string) error
}

// Publisher encodes outbound events and hands them to the registry.
type Publisher struct {
	out Sender
	log zerolog.Logger
}

var _ domain.Notifier = (*Publisher)(nil)

func NewPublisher(out Sender, log zerolog.Logger) *Publisher {
	return &Publisher{out: out, log: log.With().Str("component", "publisher").Logger()}
}

// Broadcast sends kind to every connection except exclude.
func (p *Publisher) Broadcast(kind domain.EventKind, data any, exclude string) {
	frame, err := Encode(kind, data)
	if err != nil {
		p.log.Error().Err(err).Str("event", string(kind)).Msg("encode failed")
		return
	}
	if err := p.out.Broadcast(frame, exclude); err != nil {
		p.log.Debug().Err(err).Str("event", string(kind)).Msg("broadcast incomplete")
	}
}

// Send sends kind to identity only.
func (p *Publisher) Send(identity string, kind domain.EventKind, data any) {
	frame, err := Encode(kind, data)
	if err != nil {
		p.log.Error().Err(err).Str("event", string(kind)).Msg("encode failed")
		return
	}
	if err := p.out.Send(identity, frame); err != nil {
		p.log.Debug().Err(err).Str("event", string(kind)).Str("identity", identity).Msg("send failed")
	}
}
