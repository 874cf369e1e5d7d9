package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/snapshot"
)

var syncTime = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func floatPtr(f float64) *float64 { return &f }

func TestCountdown_NilWithoutEta(t *testing.T) {
	snap := &snapshot.TripSnapshot{Status: snapshot.StatusEnRoute}

	assert.Nil(t, Countdown(snap, syncTime, syncTime))
	assert.Nil(t, Countdown(nil, syncTime, syncTime))
}

func TestCountdown_DecreasesBetweenSyncs(t *testing.T) {
	snap := &snapshot.TripSnapshot{
		Status:          snapshot.StatusEnRoute,
		FinalETAMinutes: floatPtr(5),
	}

	remaining := Countdown(snap, syncTime, syncTime.Add(30*time.Second))

	require.NotNil(t, remaining)
	assert.InDelta(t, 270_000, *remaining, 1000)
}

func TestCountdown_ClampsAtZero(t *testing.T) {
	snap := &snapshot.TripSnapshot{
		Status:          snapshot.StatusEnRoute,
		FinalETAMinutes: floatPtr(1),
	}

	remaining := Countdown(snap, syncTime, syncTime.Add(10*time.Minute))

	require.NotNil(t, remaining)
	assert.Equal(t, int64(0), *remaining)
}

func TestCountdown_FrozenWhenArrived(t *testing.T) {
	snap := &snapshot.TripSnapshot{
		Status:          snapshot.StatusArrived,
		FinalETAMinutes: floatPtr(2),
	}

	first := Countdown(snap, syncTime, syncTime.Add(5*time.Second))
	second := Countdown(snap, syncTime, syncTime.Add(95*time.Second))

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second, "ARRIVED countdown must not decrement across ticks")
	assert.Equal(t, int64(120_000), *first)
}

func TestCountdown_ZeroSyncTimeMeansNoElapsed(t *testing.T) {
	snap := &snapshot.TripSnapshot{
		Status:          snapshot.StatusEnRoute,
		FinalETAMinutes: floatPtr(3),
	}

	remaining := Countdown(snap, time.Time{}, syncTime)

	require.NotNil(t, remaining)
	assert.Equal(t, int64(180_000), *remaining)
}

func TestEffectiveStatus(t *testing.T) {
	reported := &snapshot.TripSnapshot{Status: snapshot.StatusEnRoute}
	assert.Equal(t, snapshot.StatusEnRoute, EffectiveStatus(reported, nil))

	unknown := &snapshot.TripSnapshot{Status: snapshot.StatusUnknown}
	zero := int64(0)
	near := int64(90_000)
	far := int64(600_000)

	assert.Equal(t, snapshot.StatusArrived, EffectiveStatus(unknown, &zero))
	assert.Equal(t, snapshot.StatusNearArrival, EffectiveStatus(unknown, &near))
	assert.Equal(t, snapshot.StatusEnRoute, EffectiveStatus(unknown, &far))
	assert.Equal(t, snapshot.StatusUnknown, EffectiveStatus(unknown, nil))
}

func TestProgress(t *testing.T) {
	remaining := int64(150_000)

	pct, ok := Progress(&remaining, 300)
	require.True(t, ok)
	assert.InDelta(t, 50, pct, 0.01)

	_, ok = Progress(nil, 300)
	assert.False(t, ok)

	_, ok = Progress(&remaining, 0)
	assert.False(t, ok)

	overdue := int64(400_000)
	pct, ok = Progress(&overdue, 300)
	require.True(t, ok)
	assert.Equal(t, 0.0, pct, "remaining beyond baseline clamps to zero progress")
}

func TestFormatCountdown(t *testing.T) {
	assert.Equal(t, "4:30", FormatCountdown(270_000))
	assert.Equal(t, "0:05", FormatCountdown(5_000))
	assert.Equal(t, "0:00", FormatCountdown(0))
	assert.Equal(t, "0:00", FormatCountdown(-1_000))
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "Unavailable", FormatMinutes(nil))
	assert.Equal(t, "8 min", FormatMinutes(floatPtr(7.6)))
	assert.Equal(t, "0 min", FormatMinutes(floatPtr(-3)))
}

func TestPrepNotice(t *testing.T) {
	assert.NotEmpty(t, PrepNotice(snapshot.StatusArrived))
	assert.NotEmpty(t, PrepNotice(snapshot.StatusNearArrival))
	assert.Empty(t, PrepNotice(snapshot.StatusEnRoute))
	assert.Empty(t, PrepNotice(snapshot.StatusUnknown))
}
