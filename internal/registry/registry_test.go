package registry_test

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bb84/internal/registry"
)

type fakeHandle struct {
	mu     sync.Mutex
	got    [][]byte
	fail   bool
	closed bool
}

func (f *fakeHandle) Send(p []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("peer gone")
	}
	f.got = append(f.got, p)
	return nil
}

func (f *fakeHandle) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeHandle) received() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.got)
}

func newRegistry() *registry.Registry {
	return registry.New(zerolog.Nop(), nil)
}

func TestRegister_ReplacesAndReturnsPrevious(t *testing.T) {
	r := newRegistry()
	a1, a2 := &fakeHandle{}, &fakeHandle{}

	require.Nil(t, r.Register("alice", a1))
	require.Same(t, a1, r.Register("alice", a2))
	require.Equal(t, []string{"alice"}, r.Identities())

	id, ok := r.IdentityOf(a2)
	require.True(t, ok)
	require.Equal(t, "alice", id)
	_, ok = r.IdentityOf(a1)
	require.False(t, ok)
}

func TestUnregisterHandle_StaleHandleKeepsReplacement(t *testing.T) {
	r := newRegistry()
	old, cur := &fakeHandle{}, &fakeHandle{}
	r.Register("bob", old)
	r.Register("bob", cur)

	_, ok := r.UnregisterHandle(old)
	require.False(t, ok)
	require.Equal(t, []string{"bob"}, r.Identities())

	id, ok := r.UnregisterHandle(cur)
	require.True(t, ok)
	require.Equal(t, "bob", id)
	require.Empty(t, r.Identities())
}

func TestUnregister_Idempotent(t *testing.T) {
	r := newRegistry()
	r.Register("eve", &fakeHandle{})
	r.Unregister("eve")
	r.Unregister("eve")
	require.Empty(t, r.Identities())
}

func TestIdentities_Sorted(t *testing.T) {
	r := newRegistry()
	for _, id := range []string{"eve", "alice", "bob"} {
		r.Register(id, &fakeHandle{})
	}
	require.Equal(t, []string{"alice", "bob", "eve"}, r.Identities())
}

func TestBroadcast_ExcludesSender(t *testing.T) {
	r := newRegistry()
	alice, bob, eve := &fakeHandle{}, &fakeHandle{}, &fakeHandle{}
	r.Register("alice", alice)
	r.Register("bob", bob)
	r.Register("eve", eve)

	require.NoError(t, r.Broadcast([]byte("x"), "alice"))
	require.Zero(t, alice.received())
	require.Equal(t, 1, bob.received())
	require.Equal(t, 1, eve.received())

	require.NoError(t, r.Broadcast([]byte("y"), ""))
	require.Equal(t, 1, alice.received())
}

func TestBroadcast_FailureIsolated(t *testing.T) {
	r := newRegistry()
	alice, bob, eve := &fakeHandle{}, &fakeHandle{fail: true}, &fakeHandle{}
	r.Register("alice", alice)
	r.Register("bob", bob)
	r.Register("eve", eve)

	err := r.Broadcast([]byte("x"), "")
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	require.Len(t, merr.Errors, 1)

	require.Equal(t, 1, alice.received())
	require.Equal(t, 1, eve.received())
	// A failed delivery does not unregister the recipient.
	require.Equal(t, []string{"alice", "bob", "eve"}, r.Identities())
}

func TestSend_UnknownIdentityIgnored(t *testing.T) {
	r := newRegistry()
	require.NoError(t, r.Send("nobody", []byte("x")))

	h := &fakeHandle{}
	r.Register("alice", h)
	require.NoError(t, r.Send("alice", []byte("x")))
	require.Equal(t, 1, h.received())
}

func TestRegistry_ConcurrentUse(t *testing.T) {
	const (
		workers = 16
		rounds  = 200
	)
	r := newRegistry()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			h := &fakeHandle{}
			id := fmt.Sprintf("user-%d", w%4)
			for i := 0; i < rounds; i++ {
				switch i % 5 {
				case 0:
					r.Register(id, h)
				case 1:
					assert.NoError(t, r.Broadcast([]byte("frame"), id))
				case 2:
					assert.NoError(t, r.Send(id, []byte("direct")))
				case 3:
					ids := r.Identities()
					assert.True(t, slices.IsSorted(ids))
					assert.LessOrEqual(t, len(ids), 4)
				case 4:
					if i%10 == 4 {
						r.UnregisterHandle(h)
					} else {
						r.Unregister(id)
					}
				}
			}
			r.UnregisterHandle(h)
		}(w)
	}
	wg.Wait()

	require.Empty(t, r.Identities())
}
