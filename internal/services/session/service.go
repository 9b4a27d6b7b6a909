package session

import (
	"encoding/json"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bb84/internal/domain"
	"bb84/internal/metrics"
	"bb84/internal/protocol/bb84"
)

// Options tunes a Service. An empty SessionID, a zero MaxBits and a nil Now
// fall back to defaults; DefaultEveProb is taken as given.
type Options struct {
	// SessionID names the session. A random UUID is used when empty.
	SessionID string
	// DefaultEveProb applies when alice_send_photons omits eve_prob.
	DefaultEveProb float64
	// MaxBits caps the number of bits Alice may send at once.
	MaxBits int
	// Now stamps posted messages.
	Now func() time.Time
}

// Defaults used by the server configuration.
const (
	DefaultEveProb = 0.2
	DefaultMaxBits = 4096
)

// Service owns the shared session and applies inbound events to it.
type Service struct {
	mu       sync.Mutex
	state    *domain.SessionState
	engine   *bb84.Engine
	notifier domain.Notifier
	presence domain.Presence
	limits   limits
	now      func() time.Time
	log      zerolog.Logger
	metrics  *metrics.Collector
}

var _ domain.SessionService = (*Service)(nil)

// New constructs a Service over a fresh idle session.
func New(
	engine *bb84.Engine,
	notifier domain.Notifier,
	presence domain.Presence,
	log zerolog.Logger,
	m *metrics.Collector,
	opts Options,
) *Service {
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}
	if opts.MaxBits <= 0 {
		opts.MaxBits = DefaultMaxBits
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		state:    domain.NewSessionState(opts.SessionID),
		engine:   engine,
		notifier: notifier,
		presence: presence,
		limits:   limits{defaultEveProb: opts.DefaultEveProb, maxBits: opts.MaxBits},
		now:      opts.Now,
		log:      log.With().Str("component", "session").Str("session_id", opts.SessionID).Logger(),
		metrics:  m,
	}
}

// SendPhotons encodes Alice's bits, runs them through the eavesdropper and
// sends the resulting photons to everyone except Alice.
func (s *Service) SendPhotons(ev domain.SendPhotonsEvent) (domain.PhotonsReceived, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := sendPhotons(s.state, s.engine, ev, s.limits)
	if err != nil {
		s.rejected(domain.KindSendPhotons, err)
		return domain.PhotonsReceived{}, err
	}
	s.entered(out.Phase)
	s.log.Info().
		Int("bits", len(out.Photons)).
		Float64("eve_prob", s.limits.eveProb(ev.EveProb)).
		Msg("photons sent")

	s.notifier.Broadcast(domain.KindPhotonsReceived, out, string(domain.RoleAlice))
	return out, nil
}

// RecordInterception stores what Eve reports and relays her payload to all
// participants. The phase does not change.
func (s *Service) RecordInterception(ev domain.EveInterceptEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := recordInterception(s.state, ev); err != nil {
		s.rejected(domain.KindEveIntercept, err)
		return err
	}
	s.log.Info().Int("bits", len(ev.Bits)).Msg("interception recorded")

	var data any = ev
	if len(ev.Raw) > 0 {
		data = json.RawMessage(slices.Clone(ev.Raw))
	}
	s.notifier.Broadcast(domain.KindEveIntercepted, data, "")
	return nil
}

// CompareBases sifts the key from Alice's and Bob's bases, estimates the QBER
// and derives the final key shared by both.
func (s *Service) CompareBases(ev domain.BasisComparisonEvent) (domain.BasisComparisonComplete, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := compareBases(s.state, ev)
	if err != nil {
		s.rejected(domain.KindBasisComparison, err)
		return domain.BasisComparisonComplete{}, err
	}
	s.entered(domain.PhaseBasisComparison)
	s.entered(out.Phase)
	s.metrics.KeyDerived(out.QBER, len(out.FinalKey))
	s.log.Info().
		Int("matched", len(out.MatchedIndices)).
		Float64("qber", out.QBER).
		Int("final_key_bits", len(out.FinalKey)).
		Str("key_fingerprint", out.KeyFingerprint).
		Msg("bases compared")

	s.notifier.Broadcast(domain.KindBasisComparisonComplete, out, "")
	return out, nil
}

// PostMessage appends a message stamped with the server clock and broadcasts
// it. The first message after key generation moves the session to messaging.
func (s *Service) PostMessage(ev domain.SendMessageEvent) (domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.state.Phase
	msg := domain.Message{
		Sender:    ev.Sender,
		Content:   ev.Content,
		Encrypted: ev.Encrypted,
		Timestamp: s.now(),
	}
	msg, err := postMessage(s.state, ev, msg)
	if err != nil {
		s.rejected(domain.KindSendMessage, err)
		return domain.Message{}, err
	}
	if s.state.Phase != before {
		s.entered(s.state.Phase)
	}
	s.metrics.MessagePosted(msg.Encrypted)
	s.log.Info().Str("sender", msg.Sender).Bool("encrypted", msg.Encrypted).Msg("message posted")

	s.notifier.Broadcast(domain.KindNewMessage, msg, "")
	return msg, nil
}

// Reset returns the session to idle and wipes its key material. Connected
// participants stay connected.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	reset(s.state)
	s.entered(s.state.Phase)
	s.metrics.SessionReset()
	s.log.Info().Msg("session reset")

	s.notifier.Broadcast(domain.KindSessionReset, domain.SessionResetNotice{Phase: s.state.Phase}, "")
}

// Status returns a copy of the session as seen by participants.
func (s *Service) Status() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := []string{}
	if s.presence != nil {
		users = append(users, s.presence.Identities()...)
	}
	eve := s.state.Eve.Clone()
	return domain.Snapshot{
		SessionID:      s.state.ID,
		Phase:          s.state.Phase,
		QBER:           s.state.QBER,
		ConnectedUsers: users,
		AliceData:      s.state.Alice(),
		BobData:        s.state.Bob(),
		EveData:        eve,
	}
}

// Messages returns the posted messages in the order they were appended.
func (s *Service) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, len(s.state.Messages))
	copy(out, s.state.Messages)
	return out
}

func (s *Service) entered(p domain.Phase) {
	s.metrics.PhaseEntered(string(p))
}

func (s *Service) rejected(kind domain.EventKind, err error) {
	ev := s.log.Debug()
	var pse *domain.PhaseSequenceError
	if errors.As(err, &pse) {
		ev = s.log.Warn()
	}
	ev.Err(err).Str("event", string(kind)).Str("phase", string(s.state.Phase)).Msg("event rejected")
}

func (l limits) eveProb(p *float64) float64 {
	if p != nil {
		return *p
	}
	return l.defaultEveProb
}
