// Shared fixtures for exercising the view endpoints against a transport
// manager fed by a stub backend.
package viewapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/app"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/appconf"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/clock"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/metrics"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/transport"
)

// stubFetcher serves a fixed payload, swappable mid-test.
type stubFetcher struct {
	mu      sync.Mutex
	payload []byte
}

func (f *stubFetcher) FetchSnapshot(_ context.Context, _ string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payload, nil
}

func (f *stubFetcher) setPayload(payload []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payload = payload
}

type stubDialer struct{}

func (stubDialer) Dial(_ context.Context, _ string) (transport.StreamConn, error) {
	return nil, context.Canceled
}

// newTestAPI builds a RestAPI over a manager polling the given payload.
// The mock clock drives all derived-state computations.
func newTestAPI(t *testing.T, cfg appconf.Config, clk clock.Clock) (*RestAPI, *stubFetcher) {
	t.Helper()

	if clk == nil {
		clk = clock.NewMockClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	fetcher := &stubFetcher{}
	manager := transport.NewManager(
		transport.Config{PollInterval: 5 * time.Millisecond},
		fetcher, stubDialer{}, clk, logger, nil,
	)
	t.Cleanup(manager.Close)

	api := NewRestAPI(&app.Application{
		Config:    cfg,
		Logger:    logger,
		Clock:     clk,
		Metrics:   metrics.New(),
		Transport: manager,
	})
	t.Cleanup(api.Shutdown)
	return api, fetcher
}

// startTrip selects tripID and waits for the first snapshot to land.
func startTrip(t *testing.T, api *RestAPI, tripID string) {
	t.Helper()
	require.NoError(t, api.Transport.Start(tripID))
	require.Eventually(t, func() bool {
		return api.Transport.Snapshot() != nil
	}, 2*time.Second, 5*time.Millisecond)
}

// serveRoutes spins up the full route table without middleware.
func serveRoutes(api *RestAPI) *http.ServeMux {
	mux := http.NewServeMux()
	api.SetRoutes(mux)
	return mux
}
