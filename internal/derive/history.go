// Package derive computes all operator-facing quantities from a canonical
// snapshot, the local clock, and the bounded ETA history. Everything here
// is pure: no I/O, no shared state, no hidden time reads.
package derive

// DefaultHistorySize bounds the ETA history ring.
const DefaultHistorySize = 8

// SpikeThresholdSeconds is the minimum jump between the latest two ETA
// samples that counts as a delay spike. A simple first-difference
// threshold, not a statistical model.
const SpikeThresholdSeconds = 120

// Trend summarizes the direction of the latest ETA change.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendSteady  Trend = "steady"
)

// EtaHistory is a bounded FIFO of ETA samples in seconds. Samples are
// appended only when the observed value changes; duplicate consecutive
// values are dropped. The history is not persisted anywhere.
type EtaHistory struct {
	maxPoints int
	samples   []float64
}

// NewEtaHistory creates a history bounded to maxPoints samples. A
// non-positive bound falls back to DefaultHistorySize.
func NewEtaHistory(maxPoints int) *EtaHistory {
	if maxPoints <= 0 {
		maxPoints = DefaultHistorySize
	}
	return &EtaHistory{maxPoints: maxPoints}
}

// Observe appends etaSeconds unless it equals the most recent sample.
// The oldest sample is evicted once the bound is reached.
func (h *EtaHistory) Observe(etaSeconds float64) {
	if n := len(h.samples); n > 0 && h.samples[n-1] == etaSeconds {
		return
	}
	h.samples = append(h.samples, etaSeconds)
	if len(h.samples) > h.maxPoints {
		h.samples = h.samples[1:]
	}
}

// Clone returns an independent copy of the history.
func (h *EtaHistory) Clone() *EtaHistory {
	return &EtaHistory{maxPoints: h.maxPoints, samples: h.Samples()}
}

// Samples returns a copy of the recorded samples, oldest first.
func (h *EtaHistory) Samples() []float64 {
	out := make([]float64, len(h.samples))
	copy(out, h.samples)
	return out
}

// Baseline returns the oldest recorded sample. The second return is false
// while the history is empty.
func (h *EtaHistory) Baseline() (float64, bool) {
	if len(h.samples) == 0 {
		return 0, false
	}
	return h.samples[0], true
}

// Spike reports whether the latest two samples jumped by at least
// SpikeThresholdSeconds.
func (h *EtaHistory) Spike() bool {
	n := len(h.samples)
	if n < 2 {
		return false
	}
	return h.samples[n-1]-h.samples[n-2] >= SpikeThresholdSeconds
}

// Trend classifies the latest first difference.
func (h *EtaHistory) Trend() Trend {
	n := len(h.samples)
	if n < 2 {
		return TrendSteady
	}
	switch diff := h.samples[n-1] - h.samples[n-2]; {
	case diff > 0:
		return TrendRising
	case diff < 0:
		return TrendFalling
	default:
		return TrendSteady
	}
}
