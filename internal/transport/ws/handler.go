package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"bb84/internal/metrics"
)

// Handler upgrades HTTP requests to participant connections.
type Handler struct {
	upgrader websocket.Upgrader
	cfg      Config
	in       Inbound
	log      zerolog.Logger
	metrics  *metrics.Collector
}

// NewHandler returns a Handler feeding in. checkOrigin may be nil to accept
// same-origin requests only.
func NewHandler(cfg Config, in Inbound, checkOrigin func(*http.Request) bool, log zerolog.Logger, m *metrics.Collector) *Handler {
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		cfg:     cfg,
		in:      in,
		log:     log.With().Str("component", "websocket").Logger(),
		metrics: m,
	}
}

// ServeHTTP accepts a connection that must send a join frame before anything
// else is routed.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Serve(w, r, "")
}

// Serve accepts a connection already joined as identity when identity is set.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, identity string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.log.Debug().Err(err).Msg("upgrade failed")
		return
	}
	log := h.log.With().Str("remote_addr", r.RemoteAddr).Logger()
	log.Debug().Str("identity", identity).Msg("connection opened")

	c := newConn(conn, h.cfg, log, h.metrics)
	c.serve(r.Context(), h.in, identity)

	log.Debug().Msg("connection closed")
}
