// Package transport keeps the local trip snapshot fresh against the
// backend using two competing strategies: pull polling (the default) and
// push streaming. Streaming is only ever entered by explicit request and
// falls back to polling, one-directionally, on any streaming fault.
package transport

import (
	"context"
	"time"
)

// Mode identifies the active synchronization strategy.
type Mode string

const (
	ModePolling   Mode = "polling"
	ModeStreaming Mode = "streaming"
)

const (
	// DefaultPollInterval fits the 2-3s cadence the freshness threshold
	// is tuned for.
	DefaultPollInterval = 2500 * time.Millisecond

	// DefaultKeepaliveInterval paces the outbound ping frames while a
	// stream is open.
	DefaultKeepaliveInterval = 5 * time.Second
)

// Config tunes a Manager. Zero durations fall back to the defaults above.
type Config struct {
	PollInterval      time.Duration
	KeepaliveInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.KeepaliveInterval <= 0 {
		c.KeepaliveInterval = DefaultKeepaliveInterval
	}
	return c
}

// Fetcher retrieves one raw snapshot payload from the pull endpoint.
// Implementations must honor ctx cancellation.
type Fetcher interface {
	FetchSnapshot(ctx context.Context, tripID string) ([]byte, error)
}

// StreamConn is one open push connection for a single trip.
type StreamConn interface {
	// ReadFrame blocks until the next inbound frame, returning an error
	// on any connection fault or close.
	ReadFrame() ([]byte, error)
	// WriteKeepalive sends one keepalive frame.
	WriteKeepalive() error
	Close() error
}

// StreamDialer opens push connections.
type StreamDialer interface {
	Dial(ctx context.Context, tripID string) (StreamConn, error)
}
