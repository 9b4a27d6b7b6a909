package httpapi

import (
	"net/http"
	"net/url"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"bb84/internal/domain"
	"bb84/internal/transport/ws"
)

// Deps are what the HTTP surface serves.
type Deps struct {
	Session        domain.SessionService
	Simulation     domain.SimulationService
	WebSocket      *ws.Handler
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	DefaultBits    int
	DefaultEveProb float64
	Log            zerolog.Logger
}

// NewHandler builds the gin engine, registers every controller and wraps the
// result in CORS.
func NewHandler(d Deps) (http.Handler, error) {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), accessLog(d.Log.With().Str("component", "http").Logger()))

	controllers := []Controller{
		&RootController{GroupName: "", SessionSvc: d.Session},
		&SessionController{GroupName: "/session", SessionSvc: d.Session},
		&MessageController{GroupName: "", SessionSvc: d.Session},
		&SimulationController{
			GroupName:      "",
			SimulationSvc:  d.Simulation,
			DefaultBits:    d.DefaultBits,
			DefaultEveProb: d.DefaultEveProb,
		},
	}
	if d.WebSocket != nil {
		controllers = append(controllers, &WebSocketController{GroupName: "/ws", Handler: d.WebSocket})
	}

	root := engine.Group("")
	for _, c := range controllers {
		if err := RegisterHandlers(root, c); err != nil {
			return nil, errors.Wrapf(err, "register %s", c.GetGroupName())
		}
	}

	if d.Gatherer != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(engine), nil
}

// OriginChecker returns a WebSocket origin check for allowed. Requests
// without an Origin header come from non-browser clients and are accepted;
// "*" accepts every origin.
func OriginChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(allowed, "*") {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return slices.Contains(allowed, u.Scheme+"://"+u.Host)
	}
}
