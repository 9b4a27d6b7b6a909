package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"bb84/internal/services/session"
	"bb84/internal/transport/ws"
)

// EnvPrefix prefixes every environment variable read into Config.
const EnvPrefix = "BB84"

// Config holds runtime wiring options for building the app.
type Config struct {
	ListenAddr     string    `mapstructure:"listen_addr"`     // e.g. :8000
	AllowedOrigins []string  `mapstructure:"allowed_origins"` // CORS and WebSocket origins
	DefaultBits    int       `mapstructure:"default_bits"`    // n_bits when a request omits it
	DefaultEveProb float64   `mapstructure:"default_eve_prob"`
	MaxBits        int       `mapstructure:"max_bits"`
	Seed           int64     `mapstructure:"seed"` // 0 seeds from the clock
	ServerURL      string    `mapstructure:"server_url"`
	WS             WSConfig  `mapstructure:"ws"`
	Log            LogConfig `mapstructure:"log"`
}

type WSConfig struct {
	SendQueue       int           `mapstructure:"send_queue"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	PongWait        time.Duration `mapstructure:"pong_wait"`
	WriteWait       time.Duration `mapstructure:"write_wait"`
	MaxMessageBytes int64         `mapstructure:"max_message_bytes"`
	EventsPerSecond float64       `mapstructure:"events_per_second"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // zerolog level name
	Format string `mapstructure:"format"` // json or console
}

// SetDefaults registers every key with its default so environment variables
// are picked up for all of them.
func SetDefaults(v *viper.Viper) {
	wsDefaults := ws.DefaultConfig()

	v.SetDefault("listen_addr", ":8000")
	v.SetDefault("allowed_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})
	v.SetDefault("default_bits", 20)
	v.SetDefault("default_eve_prob", session.DefaultEveProb)
	v.SetDefault("max_bits", session.DefaultMaxBits)
	v.SetDefault("seed", 0)
	v.SetDefault("server_url", "http://127.0.0.1:8000")
	v.SetDefault("ws.send_queue", wsDefaults.SendQueue)
	v.SetDefault("ws.ping_interval", wsDefaults.PingInterval)
	v.SetDefault("ws.pong_wait", wsDefaults.PongWait)
	v.SetDefault("ws.write_wait", wsDefaults.WriteWait)
	v.SetDefault("ws.max_message_bytes", wsDefaults.MaxMessageBytes)
	v.SetDefault("ws.events_per_second", wsDefaults.EventsPerSecond)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// LoadConfig reads configFile (if set) and the environment into a Config.
// Flags bound to v before the call take precedence over both.
func LoadConfig(v *viper.Viper, configFile string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", configFile)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	switch {
	case c.DefaultBits <= 0:
		return fmt.Errorf("default_bits must be positive, got %d", c.DefaultBits)
	case c.MaxBits < c.DefaultBits:
		return fmt.Errorf("max_bits (%d) must be at least default_bits (%d)", c.MaxBits, c.DefaultBits)
	case c.DefaultEveProb < 0 || c.DefaultEveProb > 1:
		return fmt.Errorf("default_eve_prob must be within [0, 1], got %v", c.DefaultEveProb)
	case c.WS.SendQueue <= 0:
		return fmt.Errorf("ws.send_queue must be positive, got %d", c.WS.SendQueue)
	case c.WS.PingInterval <= 0 || c.WS.PingInterval >= c.WS.PongWait:
		return fmt.Errorf("ws.ping_interval (%s) must be positive and below ws.pong_wait (%s)", c.WS.PingInterval, c.WS.PongWait)
	case c.WS.WriteWait <= 0:
		return fmt.Errorf("ws.write_wait must be positive, got %s", c.WS.WriteWait)
	case c.WS.MaxMessageBytes <= 0:
		return fmt.Errorf("ws.max_message_bytes must be positive, got %d", c.WS.MaxMessageBytes)
	case c.WS.EventsPerSecond < 0:
		return fmt.Errorf("ws.events_per_second must not be negative, got %v", c.WS.EventsPerSecond)
	case c.Log.Format != "json" && c.Log.Format != "console":
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}

func (c WSConfig) transport() ws.Config {
	return ws.Config{
		SendQueue:       c.SendQueue,
		PingInterval:    c.PingInterval,
		PongWait:        c.PongWait,
		WriteWait:       c.WriteWait,
		MaxMessageBytes: c.MaxMessageBytes,
		EventsPerSecond: c.EventsPerSecond,
	}
}
