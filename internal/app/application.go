// Package app holds the shared dependency container for the HTTP
// handlers, middleware, and background synchronization.
package app

import (
	"log/slog"

	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/appconf"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/clock"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/metrics"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/transport"
)

// Application holds the dependencies for the HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config    appconf.Config
	Logger    *slog.Logger
	Clock     clock.Clock
	Metrics   *metrics.Metrics
	Transport *transport.Manager
}
