package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"bb84/internal/client"
	"bb84/internal/domain"
)

func TestHTTP_RoundTrips(t *testing.T) {
	var posted domain.SendMessageEvent
	resets := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/session/status", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(domain.Snapshot{SessionID: "abc", Phase: domain.PhaseKeyGeneration, QBER: 0.1})
	})
	mux.HandleFunc("/session/reset", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		resets++
		_, _ = w.Write([]byte(`{"message":"Session reset successfully"}`))
	})
	mux.HandleFunc("/message", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
		_, _ = w.Write([]byte(`{"message":"Message sent successfully"}`))
	})
	mux.HandleFunc("/messages", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"messages":[{"sender":"bob","content":"yo","encrypted":true,"timestamp":"2024-01-01T00:00:00Z"}]}`))
	})
	mux.HandleFunc("/simulate", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "12", r.URL.Query().Get("n_bits"))
		require.Equal(t, "0.25", r.URL.Query().Get("eve_prob"))
		_ = json.NewEncoder(w).Encode(domain.SimulationResult{AliceBits: []domain.Bit{1}, EveIntercepted: true})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := client.NewHTTP(srv.URL + "/")
	ctx := context.Background()

	snap, err := c.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, "abc", snap.SessionID)
	require.Equal(t, domain.PhaseKeyGeneration, snap.Phase)

	require.NoError(t, c.Reset(ctx))
	require.Equal(t, 1, resets)

	require.NoError(t, c.PostMessage(ctx, domain.SendMessageEvent{Sender: "alice", Content: "hi"}))
	require.Equal(t, "alice", posted.Sender)

	msgs, err := c.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.True(t, msgs[0].Encrypted)

	res, err := c.Simulate(ctx, 12, 0.25)
	require.NoError(t, err)
	require.True(t, res.EveIntercepted)
}

func TestHTTP_StatusErrorCarriesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/simulate":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`["n_bits must be a positive integer."]`))
		default:
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"detail":"out of order"}`))
		}
	}))
	defer srv.Close()

	c := client.NewHTTP(srv.URL)

	_, err := c.Simulate(context.Background(), 0, 0)
	var se *client.StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusBadRequest, se.Code)
	require.Contains(t, se.Detail, "n_bits")

	err = c.Reset(context.Background())
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusConflict, se.Code)
	require.Equal(t, "out of order", se.Detail)
}
