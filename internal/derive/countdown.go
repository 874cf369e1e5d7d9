package derive

import (
	"fmt"
	"math"
	"time"

	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/snapshot"
)

// Countdown returns the remaining time to arrival in milliseconds, or nil
// when the snapshot carries no ETA. The backend reports minutes remaining
// as of the last successful sync, so the countdown subtracts the locally
// elapsed seconds since that sync and is recomputed on every clock tick.
// When the trip has ARRIVED the countdown is frozen rather than
// decremented.
func Countdown(snap *snapshot.TripSnapshot, lastSyncAt, now time.Time) *int64 {
	if snap == nil || snap.FinalETAMinutes == nil {
		return nil
	}

	baseSeconds := math.Max(0, math.Round(*snap.FinalETAMinutes*60))

	var elapsedSeconds float64
	if snap.Status != snapshot.StatusArrived && !lastSyncAt.IsZero() && now.After(lastSyncAt) {
		elapsedSeconds = math.Floor(now.Sub(lastSyncAt).Seconds())
	}

	remaining := int64(math.Max(0, baseSeconds-elapsedSeconds)) * 1000
	return &remaining
}

// EffectiveStatus returns the snapshot status, deriving one from the
// countdown when the backend reported none: arrived at zero, near arrival
// within two minutes, en route otherwise.
func EffectiveStatus(snap *snapshot.TripSnapshot, countdownMs *int64) snapshot.TripStatus {
	if snap != nil && snap.Status != snapshot.StatusUnknown {
		return snap.Status
	}
	if countdownMs == nil {
		return snapshot.StatusUnknown
	}
	switch {
	case *countdownMs <= 0:
		return snapshot.StatusArrived
	case *countdownMs <= 120_000:
		return snapshot.StatusNearArrival
	default:
		return snapshot.StatusEnRoute
	}
}

// Progress returns how far the countdown has advanced against a baseline
// ETA in seconds, clamped to [0, 100]. The zero return with a false flag
// means no meaningful progress can be computed.
func Progress(countdownMs *int64, baselineSeconds float64) (float64, bool) {
	if countdownMs == nil || baselineSeconds <= 0 {
		return 0, false
	}
	remaining := float64(*countdownMs) / 1000
	pct := (1 - remaining/baselineSeconds) * 100
	return math.Min(100, math.Max(0, pct)), true
}

// PrepNotice returns the staff preparation line for a status, or "" when
// no action is called for yet.
func PrepNotice(status snapshot.TripStatus) string {
	switch status {
	case snapshot.StatusArrived:
		return "Ambulance has arrived - hand over to ER team."
	case snapshot.StatusNearArrival:
		return "Arrival imminent - prep team to receiving bay."
	default:
		return ""
	}
}

// FormatCountdown renders milliseconds as m:ss.
func FormatCountdown(ms int64) string {
	s := ms / 1000
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// FormatMinutes renders an optional ETA in whole minutes, with the
// explicit Unavailable sentinel when absent.
func FormatMinutes(minutes *float64) string {
	if minutes == nil {
		return "Unavailable"
	}
	rounded := math.Max(0, math.Round(*minutes))
	return fmt.Sprintf("%d min", int(rounded))
}
