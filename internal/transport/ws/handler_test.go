package ws_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"bb84/internal/domain"
	"bb84/internal/protocol/bb84"
	"bb84/internal/registry"
	"bb84/internal/router"
	"bb84/internal/services/session"
	"bb84/internal/transport/ws"
)

type WsHandlerSuite struct {
	suite.Suite

	reg     *registry.Registry
	svc     *session.Service
	handler *ws.Handler
	server  *httptest.Server
}

func TestWsHandlerSuite(t *testing.T) {
	suite.Run(t, new(WsHandlerSuite))
}

func (s *WsHandlerSuite) SetupTest() {
	log := zerolog.Nop()
	s.reg = registry.New(log, nil)
	pub := router.NewPublisher(s.reg, log)
	s.svc = session.New(bb84.NewSeeded(3), pub, s.reg, log, nil, session.Options{SessionID: "ws"})
	rt := router.New(s.reg, s.svc, pub, log, nil)

	cfg := ws.DefaultConfig()
	cfg.EventsPerSecond = 0
	s.handler = ws.NewHandler(cfg, rt, nil, log, nil)

	mux := http.NewServeMux()
	mux.Handle("/ws", s.handler)
	mux.HandleFunc("/ws/", func(w http.ResponseWriter, r *http.Request) {
		s.handler.Serve(w, r, strings.TrimPrefix(r.URL.Path, "/ws/"))
	})
	s.server = httptest.NewServer(mux)
}

func (s *WsHandlerSuite) TearDownTest() {
	s.server.Close()
}

func (s *WsHandlerSuite) dial(path string) *websocket.Conn {
	wsURL := "ws" + strings.TrimPrefix(s.server.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })
	return conn
}

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (s *WsHandlerSuite) read(conn *websocket.Conn) frame {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, raw, err := conn.ReadMessage()
	s.Require().NoError(err)
	var f frame
	s.Require().NoError(json.Unmarshal(raw, &f))
	return f
}

func (s *WsHandlerSuite) write(conn *websocket.Conn, raw string) {
	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte(raw)))
}

func (s *WsHandlerSuite) join(id string) *websocket.Conn {
	conn := s.dial("/ws")
	s.write(conn, `{"type":"join","data":{"user_id":"`+id+`"}}`)
	f := s.read(conn)
	s.Require().Equal("joined", f.Type)
	s.Require().JSONEq(`{"user_id":"`+id+`"}`, string(f.Data))
	return conn
}

func (s *WsHandlerSuite) TestJoinFrame() {
	s.join("alice")
	s.Require().Equal([]string{"alice"}, s.reg.Identities())
}

func (s *WsHandlerSuite) TestPathJoin() {
	conn := s.dial("/ws/bob")
	f := s.read(conn)
	s.Require().Equal("joined", f.Type)
	s.Require().Equal([]string{"bob"}, s.reg.Identities())
}

func (s *WsHandlerSuite) TestPhotonsReachBobNotAlice() {
	alice := s.join("alice")
	bob := s.join("bob")

	s.write(alice, `{"type":"alice_send_photons","data":{"bits":[1,0,1,1],"bases":[0,0,1,1],"eve_prob":0}}`)

	f := s.read(bob)
	s.Require().Equal("photons_received", f.Type)
	var got domain.PhotonsReceived
	s.Require().NoError(json.Unmarshal(f.Data, &got))
	s.Require().Equal([]domain.Photon{1, 0, 3, 3}, got.Photons)
	s.Require().Equal(domain.PhasePhotonTransmission, got.Phase)

	// Alice's next frame is the reset, not her own photons.
	s.write(bob, `{"type":"session_reset"}`)
	s.Require().Equal("session_reset", s.read(alice).Type)
	s.Require().Equal("session_reset", s.read(bob).Type)
}

func (s *WsHandlerSuite) TestReconnectClosesPreviousConnection() {
	first := s.join("alice")
	s.join("alice")

	s.Require().NoError(first.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, _, err := first.ReadMessage()
	s.Require().True(websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	s.Require().Equal([]string{"alice"}, s.reg.Identities())
}

func (s *WsHandlerSuite) TestDisconnectUnregisters() {
	conn := s.join("eve")
	s.Require().NoError(conn.Close())

	require.Eventually(s.T(), func() bool {
		return len(s.reg.Identities()) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func (s *WsHandlerSuite) TestUnjoinedFramesIgnored() {
	conn := s.dial("/ws")
	s.write(conn, `{"type":"session_reset"}`)
	s.write(conn, `garbage`)
	s.write(conn, `{"type":"join","data":{"user_id":"bob"}}`)
	s.Require().Equal("joined", s.read(conn).Type)
	s.Require().Equal(domain.PhaseIdle, s.svc.Status().Phase)
}
