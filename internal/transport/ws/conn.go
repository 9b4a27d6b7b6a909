package ws

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"bb84/internal/domain"
	"bb84/internal/metrics"
)

var (
	// ErrQueueFull is returned by Send when the peer is not keeping up.
	ErrQueueFull = errors.New("ws: send queue full")
	// ErrClosed is returned by Send after the connection was closed.
	ErrClosed = errors.New("ws: connection closed")
)

// Inbound receives what a connection reads.
type Inbound interface {
	Route(h domain.Handle, raw []byte) error
	Join(h domain.Handle, identity string) error
	Disconnect(h domain.Handle)
}

// Conn is one participant connection. It implements domain.Handle.
type Conn struct {
	ws      *websocket.Conn
	cfg     Config
	out     chan []byte
	done    chan struct{}
	once    sync.Once
	limiter *rate.Limiter
	log     zerolog.Logger
	metrics *metrics.Collector
}

var _ domain.Handle = (*Conn)(nil)

func newConn(ws *websocket.Conn, cfg Config, log zerolog.Logger, m *metrics.Collector) *Conn {
	var limiter *rate.Limiter
	if cfg.EventsPerSecond > 0 {
		burst := int(math.Ceil(cfg.EventsPerSecond))
		limiter = rate.NewLimiter(rate.Limit(cfg.EventsPerSecond), burst)
	}
	queue := cfg.SendQueue
	if queue <= 0 {
		queue = 1
	}
	return &Conn{
		ws:      ws,
		cfg:     cfg,
		out:     make(chan []byte, queue),
		done:    make(chan struct{}),
		limiter: limiter,
		log:     log,
		metrics: m,
	}
}

// Send queues payload for the writer.
func (c *Conn) Send(payload []byte) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	select {
	case c.out <- payload:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close asks the writer to send a close frame and stop. It does not wait.
func (c *Conn) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

// serve runs the connection until the peer goes away, Close is called or ctx
// ends. identity, when set, joins the connection before any frame is read.
func (c *Conn) serve(ctx context.Context, in Inbound, identity string) {
	defer func() {
		in.Disconnect(c)
		_ = c.Close()
		_ = c.ws.Close()
	}()

	c.ws.SetReadLimit(c.cfg.MaxMessageBytes)
	if err := c.configureKeepalive(); err != nil {
		c.log.Error().Err(err).Msg("error configuring keepalive")
		return
	}
	if identity != "" {
		if err := in.Join(c, identity); err != nil {
			return
		}
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.keepalive(gCtx) })
	g.Go(func() error { return c.writeFrames(gCtx) })
	g.Go(func() error { return c.readFrames(in) })
	g.Go(func() error {
		// Unblocks the reader once any other routine stops.
		<-gCtx.Done()
		return c.ws.Close()
	})

	if err := g.Wait(); err != nil && !expectedClose(err) {
		c.log.Debug().Err(err).Msg("connection ended")
	}
}

func (c *Conn) configureKeepalive() error {
	if err := c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait)); err != nil {
		return fmt.Errorf("set initial read deadline: %w", err)
	}
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})
	return nil
}

func (c *Conn) keepalive(ctx context.Context) error {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.cfg.WriteWait)); err != nil {
				return fmt.Errorf("send ping: %w", err)
			}
		}
	}
}

func (c *Conn) writeFrames(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.done:
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced")
			_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.cfg.WriteWait))
			return ErrClosed
		case frame := <-c.out:
			if err := c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait)); err != nil {
				return fmt.Errorf("set write deadline: %w", err)
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				return fmt.Errorf("write frame: %w", err)
			}
		}
	}
}

func (c *Conn) readFrames(in Inbound) error {
	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			return err
		}
		if c.limiter != nil && !c.limiter.Allow() {
			c.metrics.EventDropped("rate_limited")
			c.log.Debug().Msg("frame dropped by rate limit")
			continue
		}
		// Route logs and counts its own rejections.
		_ = in.Route(c, frame)
	}
}

func expectedClose(err error) bool {
	if errors.Is(err, ErrClosed) || errors.Is(err, websocket.ErrCloseSent) {
		return true
	}
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived)
}
