package transport

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/clock"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/derive"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/freshness"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/logging"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/metrics"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/snapshot"
)

// ErrClosed is returned by operations on a torn-down Manager.
var ErrClosed = errors.New("transport: manager is closed")

// ErrNoTrip is returned when a mode switch is requested before any trip
// has been selected.
var ErrNoTrip = errors.New("transport: no trip selected")

// Manager owns the canonical snapshot slot and the active transport for
// one selected trip. It is the only writer of that state; readers go
// through the accessor methods.
//
// Every transition (trip change, explicit mode switch, streaming fault,
// teardown) bumps a generation counter and cancels the previous state's
// context before the new state issues any work. Late completions from a
// superseded generation are discarded on store, so a stale response can
// never overwrite a newer snapshot.
type Manager struct {
	cfg     Config
	fetcher Fetcher
	dialer  StreamDialer
	clk     clock.Clock
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu         sync.RWMutex
	tripID     string
	mode       Mode
	generation uint64
	cancel     context.CancelFunc
	closed     bool

	snap       *snapshot.TripSnapshot
	history    *derive.EtaHistory
	lastSyncAt time.Time
	stale      bool
	lastErr    error
}

// NewManager wires a Manager from its collaborators. metrics may be nil.
func NewManager(cfg Config, fetcher Fetcher, dialer StreamDialer, clk clock.Clock, logger *slog.Logger, m *metrics.Metrics) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Manager{
		cfg:     cfg.withDefaults(),
		fetcher: fetcher,
		dialer:  dialer,
		clk:     clk,
		logger:  logger.With(slog.String("component", "transport_manager")),
		metrics: m,
		mode:    ModePolling,
		history: derive.NewEtaHistory(derive.DefaultHistorySize),
	}
}

// Start selects a trip and enters Polling for it, tearing down whatever
// state was active before. Selecting the already-active trip is a no-op.
func (m *Manager) Start(tripID string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if tripID == m.tripID && m.cancel != nil {
		m.mu.Unlock()
		return nil
	}

	// New trip: nothing carried over from the previous selection.
	m.snap = nil
	m.history = derive.NewEtaHistory(derive.DefaultHistorySize)
	m.lastSyncAt = time.Time{}
	m.stale = false
	m.lastErr = nil

	ctx, gen := m.transitionLocked(ModePolling, tripID)
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.TripChangesTotal.Inc()
	}
	logging.LogOperation(m.logger, "trip_selected", slog.String("trip_id", tripID))
	go m.runPolling(ctx, gen, tripID)
	return nil
}

// SetMode switches the synchronization strategy. Streaming is only ever
// entered through this call; the reverse transition also happens
// automatically on streaming faults.
func (m *Manager) SetMode(mode Mode) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.tripID == "" {
		m.mu.Unlock()
		return ErrNoTrip
	}
	if mode == m.mode {
		m.mu.Unlock()
		return nil
	}

	tripID := m.tripID
	ctx, gen := m.transitionLocked(mode, tripID)
	m.mu.Unlock()

	logging.LogOperation(m.logger, "mode_switched", slog.String("mode", string(mode)), slog.String("trip_id", tripID))
	if mode == ModeStreaming {
		go m.runStreaming(ctx, gen, tripID)
	} else {
		go m.runPolling(ctx, gen, tripID)
	}
	return nil
}

// Close tears down all timers and connections. Safe to call repeatedly.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.generation++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// transitionLocked supersedes the current state and prepares the next one:
// bump the generation, cancel prior resources, hand out a fresh context.
// Callers must hold m.mu.
func (m *Manager) transitionLocked(mode Mode, tripID string) (context.Context, uint64) {
	m.generation++
	gen := m.generation
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.mode = mode
	m.tripID = tripID

	if m.metrics != nil {
		if mode == ModeStreaming {
			m.metrics.StreamingActive.Set(1)
		} else {
			m.metrics.StreamingActive.Set(0)
		}
	}
	return ctx, gen
}

// runPolling issues one immediate fetch and then one per tick. The ticker
// is never paused by a slow response; instead the previous request is
// cancelled before a new one starts, so at most one fetch per trip is in
// flight.
func (m *Manager) runPolling(ctx context.Context, gen uint64, tripID string) {
	logger := m.logger.With(slog.String("trip_id", tripID))

	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	var cancelInflight context.CancelFunc
	launch := func() {
		if cancelInflight != nil {
			cancelInflight()
		}
		fetchCtx, cancel := context.WithCancel(ctx)
		cancelInflight = cancel
		go m.fetchOnce(fetchCtx, gen, tripID, logger)
	}

	launch()
	for {
		select {
		case <-ticker.C:
			launch()
		case <-ctx.Done():
			if cancelInflight != nil {
				cancelInflight()
			}
			return
		}
	}
}

func (m *Manager) fetchOnce(ctx context.Context, gen uint64, tripID string, logger *slog.Logger) {
	start := m.clk.Now()
	raw, err := m.fetcher.FetchSnapshot(ctx, tripID)
	if m.metrics != nil {
		m.metrics.PollsTotal.Inc()
		m.metrics.PollDuration.Observe(m.clk.Now().Sub(start).Seconds())
	}
	if err != nil {
		if ctx.Err() != nil {
			// Superseded or torn down; the late completion is ignored.
			return
		}
		m.recordNetworkFault(gen, err, logger)
		return
	}
	m.store(gen, tripID, raw)
}

// recordNetworkFault keeps the existing snapshot but marks it stale and
// surfaces the error. The next scheduled tick retries automatically.
func (m *Manager) recordNetworkFault(gen uint64, err error, logger *slog.Logger) {
	m.mu.Lock()
	if m.closed || m.generation != gen {
		m.mu.Unlock()
		return
	}
	m.stale = true
	m.lastErr = err
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.PollFailuresTotal.Inc()
	}
	logging.LogError(logger, "snapshot poll failed", err)
}

// store normalizes and atomically replaces the snapshot slot. The write is
// rejected when the generation has moved on, upholding the rule that a
// superseded cycle can never overwrite a newer state.
func (m *Manager) store(gen uint64, tripID string, raw []byte) {
	snap := snapshot.Normalize(raw, tripID)
	now := m.clk.Now()

	m.mu.Lock()
	if m.closed || m.generation != gen {
		m.mu.Unlock()
		return
	}
	m.snap = &snap
	m.lastSyncAt = now
	m.stale = false
	m.lastErr = nil
	if snap.FinalETAMinutes != nil {
		m.history.Observe(*snap.FinalETAMinutes * 60)
	}
	m.mu.Unlock()

	if m.metrics != nil {
		if fresh := freshness.Evaluate(snap.LastGPSAt, snap.ServerTime, now); fresh.AgeSeconds != nil {
			m.metrics.SnapshotAgeSeconds.Set(float64(*fresh.AgeSeconds))
		}
	}
}

// runStreaming opens one push connection and consumes frames until a
// fault or teardown. Malformed data frames are dropped silently; any
// connection error, unexpected close, or dial failure falls back to
// polling.
func (m *Manager) runStreaming(ctx context.Context, gen uint64, tripID string) {
	logger := m.logger.With(slog.String("trip_id", tripID))

	conn, err := m.dialer.Dial(ctx, tripID)
	if err != nil {
		logging.LogError(logger, "stream dial failed", err)
		m.fallbackToPolling(gen, err)
		return
	}
	defer logging.SafeCloseWithLogging(conn, logger, "stream_connection")

	// Keepalive loop doubles as the teardown watcher: closing the
	// connection is what unblocks the read loop below.
	go func() {
		keepalive := time.NewTicker(m.cfg.KeepaliveInterval)
		defer keepalive.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = conn.Close()
				return
			case <-keepalive.C:
				if err := conn.WriteKeepalive(); err != nil {
					_ = conn.Close()
					return
				}
			}
		}
	}()

	for {
		frame, err := conn.ReadFrame()
		if err != nil {
			if ctx.Err() != nil {
				// Deliberate teardown, not a fault.
				return
			}
			logging.LogError(logger, "stream fault, falling back to polling", err)
			m.fallbackToPolling(gen, err)
			return
		}

		payload, ok := snapshot.DecodeFrame(frame)
		if !ok {
			if m.metrics != nil {
				m.metrics.StreamDropsTotal.Inc()
			}
			continue
		}
		if m.metrics != nil {
			m.metrics.StreamFramesTotal.Inc()
		}
		m.store(gen, tripID, payload)
	}
}

// fallbackToPolling is the one-directional recovery path: the snapshot is
// marked stale until the next successful poll, and streaming is not
// re-entered without an explicit SetMode call. The fault itself is not
// surfaced as an error banner; the fallback is the recovery.
func (m *Manager) fallbackToPolling(fromGen uint64, cause error) {
	m.mu.Lock()
	if m.closed || m.generation != fromGen {
		m.mu.Unlock()
		return
	}
	m.stale = true
	tripID := m.tripID
	ctx, gen := m.transitionLocked(ModePolling, tripID)
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.FallbacksTotal.Inc()
	}
	logging.LogOperation(m.logger, "stream_fallback",
		slog.String("trip_id", tripID), slog.String("cause", cause.Error()))
	go m.runPolling(ctx, gen, tripID)
}

// Snapshot returns the current canonical snapshot, or nil before the
// first successful sync. Snapshots are immutable; callers must not modify
// the returned value.
func (m *Manager) Snapshot() *snapshot.TripSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}

// Mode returns the active synchronization strategy.
func (m *Manager) Mode() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode
}

// TripID returns the selected trip, or "" before the first Start.
func (m *Manager) TripID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tripID
}

// Stale reports whether the snapshot is older than the last fault.
func (m *Manager) Stale() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stale
}

// LastError returns the most recent network fault, cleared on the next
// successful sync. Stream faults are not reported here.
func (m *Manager) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// LastSyncAt returns the local time of the last successful sync.
func (m *Manager) LastSyncAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastSyncAt
}

// History returns a copy of the bounded ETA history for this trip.
func (m *Manager) History() *derive.EtaHistory {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.history.Clone()
}
