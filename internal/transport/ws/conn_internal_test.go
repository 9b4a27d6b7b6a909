package ws

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSend_QueueFullAndClosed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SendQueue = 2
	c := newConn(nil, cfg, zerolog.Nop(), nil)

	require.NoError(t, c.Send([]byte("a")))
	require.NoError(t, c.Send([]byte("b")))
	require.ErrorIs(t, c.Send([]byte("c")), ErrQueueFull)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	require.ErrorIs(t, c.Send([]byte("d")), ErrClosed)
}
