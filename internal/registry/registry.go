package registry

import (
	"slices"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"bb84/internal/domain"
	"bb84/internal/metrics"
)

// Registry maps identities to connection handles. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	byID    map[string]domain.Handle
	log     zerolog.Logger
	metrics *metrics.Collector
}

var _ domain.Presence = (*Registry)(nil)

// New returns an empty registry.
func New(log zerolog.Logger, m *metrics.Collector) *Registry {
	return &Registry{
		byID:    make(map[string]domain.Handle),
		log:     log.With().Str("component", "registry").Logger(),
		metrics: m,
	}
}

// Register binds identity to h and returns the handle it replaced, if any.
func (r *Registry) Register(identity string, h domain.Handle) (replaced domain.Handle) {
	r.mu.Lock()
	prev, ok := r.byID[identity]
	r.byID[identity] = h
	n := len(r.byID)
	r.mu.Unlock()

	r.metrics.SetConnected(n)
	if ok && prev != h {
		r.log.Info().Str("identity", identity).Msg("connection replaced")
		return prev
	}
	r.log.Info().Str("identity", identity).Int("connected", n).Msg("participant joined")
	return nil
}

// Unregister removes identity. Removing an unknown identity is a no-op.
func (r *Registry) Unregister(identity string) {
	r.mu.Lock()
	_, ok := r.byID[identity]
	delete(r.byID, identity)
	n := len(r.byID)
	r.mu.Unlock()

	if ok {
		r.metrics.SetConnected(n)
		r.log.Info().Str("identity", identity).Int("connected", n).Msg("participant left")
	}
}

// UnregisterHandle removes whichever identity is bound to h and reports it.
// It does nothing if h is no longer registered.
func (r *Registry) UnregisterHandle(h domain.Handle) (identity string, ok bool) {
	r.mu.Lock()
	for id, cur := range r.byID {
		if cur == h {
			identity, ok = id, true
			delete(r.byID, id)
			break
		}
	}
	n := len(r.byID)
	r.mu.Unlock()

	if ok {
		r.metrics.SetConnected(n)
		r.log.Info().Str("identity", identity).Int("connected", n).Msg("participant left")
	}
	return identity, ok
}

// IdentityOf returns the identity bound to h.
func (r *Registry) IdentityOf(h domain.Handle) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, cur := range r.byID {
		if cur == h {
			return id, true
		}
	}
	return "", false
}

// Identities returns the registered identities in sorted order.
func (r *Registry) Identities() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.byID))
	for id := range r.byID {
		out = append(out, id)
	}
	r.mu.RUnlock()
	slices.Sort(out)
	return out
}

// Send delivers payload to identity. An unknown identity is ignored.
func (r *Registry) Send(identity string, payload []byte) error {
	r.mu.RLock()
	h, ok := r.byID[identity]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	err := h.Send(payload)
	if err != nil {
		r.metrics.Delivered(0, 1)
		r.log.Warn().Err(err).Str("identity", identity).Msg("delivery failed")
		return err
	}
	r.metrics.Delivered(1, 0)
	return nil
}

// Broadcast delivers payload to every identity except exclude (empty means
// nobody is excluded). Failures are collected and returned together; every
// recipient is attempted regardless.
func (r *Registry) Broadcast(payload []byte, exclude string) error {
	type target struct {
		id string
		h  domain.Handle
	}
	r.mu.RLock()
	targets := make([]target, 0, len(r.byID))
	for id, h := range r.byID {
		if exclude != "" && id == exclude {
			continue
		}
		targets = append(targets, target{id, h})
	}
	r.mu.RUnlock()

	var result *multierror.Error
	ok := 0
	for _, t := range targets {
		if err := t.h.Send(payload); err != nil {
			r.log.Warn().Err(err).Str("identity", t.id).Msg("delivery failed")
			result = multierror.Append(result, err)
			continue
		}
		ok++
	}
	r.metrics.Delivered(ok, len(targets)-ok)
	return result.ErrorOrNil()
}
