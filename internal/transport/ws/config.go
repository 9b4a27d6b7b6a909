package ws

import "time"

// Config holds per-connection limits.
type Config struct {
	// SendQueue is the number of outbound frames buffered per connection.
	SendQueue int
	// PingInterval is how often the server pings. It must be below PongWait.
	PingInterval time.Duration
	// PongWait is how long a connection may stay silent before it is dropped.
	PongWait time.Duration
	// WriteWait bounds each write.
	WriteWait time.Duration
	// MaxMessageBytes is the largest inbound frame accepted.
	MaxMessageBytes int64
	// EventsPerSecond limits inbound frames per connection. Zero disables it.
	EventsPerSecond float64
}

func DefaultConfig() Config {
	return Config{
		SendQueue:       64,
		PingInterval:    30 * time.Second,
		PongWait:        60 * time.Second,
		WriteWait:       10 * time.Second,
		MaxMessageBytes: 1 << 20,
		EventsPerSecond: 20,
	}
}
