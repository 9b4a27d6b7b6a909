package router

import (
	"errors"

	"github.com/rs/zerolog"

	"bb84/internal/domain"
	"bb84/internal/metrics"
)

// Connections is the part of the connection registry the Router manages.
type Connections interface {
	Register(identity string, h domain.Handle) (replaced domain.Handle)
	UnregisterHandle(h domain.Handle) (identity string, ok bool)
	IdentityOf(h domain.Handle) (string, bool)
}

// ErrNotJoined is returned for events from a connection that has not joined.
var ErrNotJoined = errors.New("router: connection has not joined")

// Router dispatches decoded client events to the session service.
type Router struct {
	conns    Connections
	session  domain.SessionService
	notifier domain.Notifier
	log      zerolog.Logger
	metrics  *metrics.Collector
}

func New(conns Connections, session domain.SessionService, notifier domain.Notifier, log zerolog.Logger, m *metrics.Collector) *Router {
	return &Router{
		conns:    conns,
		session:  session,
		notifier: notifier,
		log:      log.With().Str("component", "router").Logger(),
		metrics:  m,
	}
}

// Route applies one raw frame received on h. The returned error says why a
// frame was dropped; callers need not act on it.
func (r *Router) Route(h domain.Handle, raw []byte) error {
	ev, err := Decode(raw)
	if err != nil {
		return r.drop(err, "", "")
	}
	if join, ok := ev.(domain.JoinEvent); ok {
		return r.Join(h, join.UserID)
	}

	identity, ok := r.conns.IdentityOf(h)
	if !ok {
		return r.drop(ErrNotJoined, ev.Kind(), "")
	}

	switch ev := ev.(type) {
	case domain.SendPhotonsEvent:
		_, err = r.session.SendPhotons(ev)
	case domain.EveInterceptEvent:
		err = r.session.RecordInterception(ev)
	case domain.BasisComparisonEvent:
		_, err = r.session.CompareBases(ev)
	case domain.SendMessageEvent:
		if ev.Sender == "" {
			ev.Sender = identity
		}
		_, err = r.session.PostMessage(ev)
	case domain.ResetEvent:
		r.session.Reset()
	case domain.JoinEvent:
		// handled above
	}
	if err != nil {
		return r.drop(err, ev.Kind(), identity)
	}
	return nil
}

// Join binds h to identity and acknowledges to that connection alone. A
// connection that joins again under a new identity gives up the old one, and
// a previous connection for identity is closed.
func (r *Router) Join(h domain.Handle, identity string) error {
	if identity == "" {
		return r.drop(&domain.ValidationError{Field: "user_id", Reason: "must not be empty"}, domain.KindJoin, "")
	}
	if prev, ok := r.conns.IdentityOf(h); ok && prev != identity {
		r.conns.UnregisterHandle(h)
	}
	if old := r.conns.Register(identity, h); old != nil {
		if err := old.Close(); err != nil {
			r.log.Debug().Err(err).Str("identity", identity).Msg("closing replaced connection")
		}
	}
	r.notifier.Send(identity, domain.KindJoined, domain.Joined{UserID: identity})
	return nil
}

// Disconnect forgets h. It is safe to call more than once.
func (r *Router) Disconnect(h domain.Handle) {
	r.conns.UnregisterHandle(h)
}

func (r *Router) drop(err error, kind domain.EventKind, identity string) error {
	r.metrics.EventDropped(dropReason(err))
	r.log.Debug().
		Err(err).
		Str("event", string(kind)).
		Str("identity", identity).
		Msg("event dropped")
	return err
}

func dropReason(err error) string {
	var verr *domain.ValidationError
	var perr *domain.PhaseSequenceError
	switch {
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrUnknownEvent):
		return "unknown"
	case errors.Is(err, ErrNotJoined):
		return "not_joined"
	case errors.As(err, &verr):
		return "validation"
	case errors.As(err, &perr):
		return "phase_sequence"
	default:
		return "other"
	}
}
