package app_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"bb84/internal/app"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := app.LoadConfig(viper.New(), "")
	require.NoError(t, err)

	require.Equal(t, ":8000", cfg.ListenAddr)
	require.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.AllowedOrigins)
	require.Equal(t, 20, cfg.DefaultBits)
	require.Equal(t, 0.2, cfg.DefaultEveProb)
	require.Equal(t, 4096, cfg.MaxBits)
	require.Equal(t, 64, cfg.WS.SendQueue)
	require.Equal(t, 30*time.Second, cfg.WS.PingInterval)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bb84.yaml")
	yaml := "listen_addr: \":9100\"\ndefault_bits: 32\nws:\n  ping_interval: 5s\n  pong_wait: 15s\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("BB84_DEFAULT_BITS", "64")
	t.Setenv("BB84_WS_SEND_QUEUE", "8")

	cfg, err := app.LoadConfig(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, ":9100", cfg.ListenAddr)
	require.Equal(t, 64, cfg.DefaultBits)
	require.Equal(t, 8, cfg.WS.SendQueue)
	require.Equal(t, 5*time.Second, cfg.WS.PingInterval)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := app.LoadConfig(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	base, err := app.LoadConfig(viper.New(), "")
	require.NoError(t, err)

	cases := map[string]func(*app.Config){
		"bits":        func(c *app.Config) { c.DefaultBits = 0 },
		"max bits":    func(c *app.Config) { c.MaxBits = 1 },
		"eve prob":    func(c *app.Config) { c.DefaultEveProb = 1.5 },
		"queue":       func(c *app.Config) { c.WS.SendQueue = 0 },
		"ping":        func(c *app.Config) { c.WS.PingInterval = c.WS.PongWait },
		"log format":  func(c *app.Config) { c.Log.Format = "xml" },
		"events rate": func(c *app.Config) { c.WS.EventsPerSecond = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := app.NewLogger(app.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Str("component", "test").Msg("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"component":"test"`)

	_, err = app.NewLogger(app.LogConfig{Level: "loud"}, &buf)
	require.Error(t, err)
}

func TestNewServer_ServesStatus(t *testing.T) {
	cfg, err := app.LoadConfig(viper.New(), "")
	require.NoError(t, err)
	cfg.Seed = 1

	srv, err := app.NewServer(cfg, zerolog.Nop(), prometheus.NewRegistry())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/session/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestNew_ClientSide(t *testing.T) {
	cfg, err := app.LoadConfig(viper.New(), "")
	require.NoError(t, err)

	a := app.New(cfg, zerolog.Nop(), nil, "")
	require.NotNil(t, a.Server)
	require.Nil(t, a.Reports)

	res, err := a.Simulation.Run(10, 0)
	require.NoError(t, err)
	require.Zero(t, res.QBER)

	a = app.New(cfg, zerolog.Nop(), nil, t.TempDir())
	require.NotNil(t, a.Reports)
}
