package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"bb84/internal/httpapi"
	"bb84/internal/metrics"
	"bb84/internal/protocol/bb84"
	"bb84/internal/registry"
	"bb84/internal/router"
	sessionsvc "bb84/internal/services/session"
	simulationsvc "bb84/internal/services/simulation"
	"bb84/internal/transport/ws"
)

// Server bundles the server-side dependency graph.
type Server struct {
	Config     Config
	Registry   *registry.Registry
	Session    *sessionsvc.Service
	Simulation *simulationsvc.Service
	Router     *router.Router
	Handler    http.Handler
}

// NewServer constructs the server graph from cfg. Metrics are registered with
// reg, which also backs /metrics.
func NewServer(cfg Config, log zerolog.Logger, reg *prometheus.Registry) (*Server, error) {
	m := metrics.New(reg)
	engine := newEngine(cfg.Seed)

	// Connections and the outbound half
	connections := registry.New(log, m)
	publisher := router.NewPublisher(connections, log)

	// Session state and one-shot runs
	sessions := sessionsvc.New(engine, publisher, connections, log, m, sessionsvc.Options{
		DefaultEveProb: cfg.DefaultEveProb,
		MaxBits:        cfg.MaxBits,
	})
	simulations := simulationsvc.New(engine, cfg.MaxBits, log, m)

	// Inbound half
	rt := router.New(connections, sessions, publisher, log, m)
	wsHandler := ws.NewHandler(cfg.WS.transport(), rt, httpapi.OriginChecker(cfg.AllowedOrigins), log, m)

	handler, err := httpapi.NewHandler(httpapi.Deps{
		Session:        sessions,
		Simulation:     simulations,
		WebSocket:      wsHandler,
		Gatherer:       reg,
		AllowedOrigins: cfg.AllowedOrigins,
		DefaultBits:    cfg.DefaultBits,
		DefaultEveProb: cfg.DefaultEveProb,
		Log:            log,
	})
	if err != nil {
		return nil, err
	}

	return &Server{
		Config:     cfg,
		Registry:   connections,
		Session:    sessions,
		Simulation: simulations,
		Router:     rt,
		Handler:    handler,
	}, nil
}

func newEngine(seed int64) *bb84.Engine {
	if seed == 0 {
		return bb84.New()
	}
	return bb84.NewSeeded(seed)
}
