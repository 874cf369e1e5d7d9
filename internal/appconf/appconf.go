// Package appconf holds application-level configuration shared by the
// entrypoint, the transport layer, and the HTTP view surface.
package appconf

import "time"

// Environment identifies the runtime environment.
type Environment int

const (
	Development Environment = iota
	Test
	Production
)

// EnvFlagToEnvironment maps the APP_ENV flag value to an Environment.
// Unknown values fall back to Development.
func EnvFlagToEnvironment(flag string) Environment {
	switch flag {
	case "production", "prod":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

func (e Environment) String() string {
	switch e {
	case Production:
		return "production"
	case Test:
		return "test"
	default:
		return "development"
	}
}

// Config is the application configuration assembled in cmd/dashboard.
type Config struct {
	Env       Environment
	Port      int
	ApiKeys   []string
	RateLimit int // requests per second per API key; <= 0 disables limiting
	Verbose   bool

	// Snapshot backend. WebSocket URLs are derived from BaseURL by
	// protocol upgrade (http -> ws, https -> wss).
	BaseURL string
	TripID  string

	PollInterval      time.Duration
	KeepaliveInterval time.Duration
}
