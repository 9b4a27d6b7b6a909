package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"bb84/internal/domain"
	"bb84/internal/httpapi"
	"bb84/internal/metrics"
	"bb84/internal/protocol/bb84"
	"bb84/internal/registry"
	"bb84/internal/router"
	"bb84/internal/services/session"
	"bb84/internal/services/simulation"
	"bb84/internal/transport/ws"
)

type HTTPSuite struct {
	suite.Suite

	reg     *registry.Registry
	svc     *session.Service
	handler http.Handler
}

func TestHTTPSuite(t *testing.T) {
	suite.Run(t, new(HTTPSuite))
}

func (s *HTTPSuite) SetupTest() {
	log := zerolog.Nop()
	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)

	s.reg = registry.New(log, m)
	pub := router.NewPublisher(s.reg, log)
	s.svc = session.New(bb84.NewSeeded(8), pub, s.reg, log, m, session.Options{
		SessionID:      "sess-1",
		DefaultEveProb: 0.2,
		Now:            func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) },
	})
	rt := router.New(s.reg, s.svc, pub, log, m)

	h, err := httpapi.NewHandler(httpapi.Deps{
		Session:        s.svc,
		Simulation:     simulation.New(bb84.NewSeeded(9), 1000, log, m),
		WebSocket:      ws.NewHandler(ws.DefaultConfig(), rt, httpapi.OriginChecker([]string{"http://localhost:3000"}), log, m),
		Gatherer:       promReg,
		AllowedOrigins: []string{"http://localhost:3000"},
		DefaultBits:    20,
		DefaultEveProb: 0.2,
		Log:            log,
	})
	s.Require().NoError(err)
	s.handler = h
}

func (s *HTTPSuite) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *HTTPSuite) TestRootBanner() {
	rec := s.do(http.MethodGet, "/", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().JSONEq(`{"message":"BB84 QKD Demo API","session_id":"sess-1"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/healthz", "")
	s.Require().Equal(http.StatusOK, rec.Code)
}

func (s *HTTPSuite) TestSimulateDefaults() {
	rec := s.do(http.MethodGet, "/simulate", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var res domain.SimulationResult
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	s.Require().Len(res.AliceBits, 20)
	s.Require().True(res.EveIntercepted)
}

func (s *HTTPSuite) TestSimulateNoEve() {
	rec := s.do(http.MethodGet, "/simulate?n_bits=10&eve_prob=0", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var res domain.SimulationResult
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	s.Require().Len(res.AliceBits, 10)
	s.Require().Zero(res.QBER)
	s.Require().False(res.EveIntercepted)
	s.Require().Equal(res.AliceSifted, res.FinalKey)
}

func (s *HTTPSuite) TestSimulateBadParameters() {
	rec := s.do(http.MethodGet, "/simulate?n_bits=-1&eve_prob=2", "")
	s.Require().Equal(http.StatusBadRequest, rec.Code)

	var pel []string
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &pel))
	s.Require().Len(pel, 2)

	rec = s.do(http.MethodGet, "/simulate?n_bits=5000", "")
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	s.Require().Contains(rec.Body.String(), "detail")
}

func (s *HTTPSuite) TestStatusAndReset() {
	rec := s.do(http.MethodGet, "/session/status", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var snap map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &snap))
	s.Require().Equal("sess-1", snap["session_id"])
	s.Require().Equal("idle", snap["phase"])
	s.Require().Equal([]any{}, snap["connected_users"])
	alice := snap["alice_data"].(map[string]any)
	s.Require().Equal("alice", alice["user_type"])
	s.Require().Nil(alice["bits"])

	_, err := s.svc.SendPhotons(domain.SendPhotonsEvent{Bits: []domain.Bit{1}, Bases: []domain.Basis{0}})
	s.Require().NoError(err)

	rec = s.do(http.MethodPost, "/session/reset", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().JSONEq(`{"message":"Session reset successfully"}`, rec.Body.String())
	s.Require().Equal(domain.PhaseIdle, s.svc.Status().Phase)
}

func (s *HTTPSuite) TestPostAndListMessages() {
	rec := s.do(http.MethodPost, "/message", `{"sender":"alice","content":"hi","encrypted":false}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().JSONEq(`{"message":"Message sent successfully"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/messages", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().JSONEq(`{"messages":[{"sender":"alice","content":"hi","encrypted":false,"timestamp":"2024-01-02T03:04:05Z"}]}`, rec.Body.String())
}

func (s *HTTPSuite) TestPostMessageRejectsBadBody() {
	rec := s.do(http.MethodPost, "/message", `{"content":"no sender"}`)
	s.Require().Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/message", `not json`)
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	s.Require().Empty(s.svc.Messages())
}

func (s *HTTPSuite) TestCORSPreflight() {
	req := httptest.NewRequest(http.MethodOptions, "/session/status", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	s.Require().Equal("http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/session/status", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Require().Empty(rec.Header().Get("Access-Control-Allow-Origin"))
}

func (s *HTTPSuite) TestMetricsExposed() {
	s.do(http.MethodGet, "/simulate?n_bits=4", "")

	rec := s.do(http.MethodGet, "/metrics", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().Contains(rec.Body.String(), "bb84_simulations_total 1")
}

func (s *HTTPSuite) TestOriginChecker() {
	check := httpapi.OriginChecker([]string{"http://localhost:3000"})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	s.Require().True(check(req))

	req.Header.Set("Origin", "http://localhost:3000")
	s.Require().True(check(req))

	req.Header.Set("Origin", "http://evil.example")
	s.Require().False(check(req))

	s.Require().True(httpapi.OriginChecker([]string{"*"})(req))
}
