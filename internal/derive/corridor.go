package derive

import (
	"math"
	"sort"
	"time"

	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/freshness"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/snapshot"
)

// SortCorridor returns a new slice ordered by (priority rank, window start
// ascending). Junctions with no window start sort after every junction
// with a defined one within the same priority band. When highOnly is set,
// only HIGH priority junctions are kept before sorting. The input is never
// modified.
func SortCorridor(corridor []snapshot.CorridorJunction, highOnly bool) []snapshot.CorridorJunction {
	out := make([]snapshot.CorridorJunction, 0, len(corridor))
	for _, j := range corridor {
		if highOnly && j.Priority != snapshot.PriorityHigh {
			continue
		}
		out = append(out, j)
	}

	sort.SliceStable(out, func(a, b int) bool {
		ra, rb := out[a].Priority.Rank(), out[b].Priority.Rank()
		if ra != rb {
			return ra < rb
		}
		return windowStartMs(out[a]) < windowStartMs(out[b])
	})
	return out
}

// windowStartMs treats a missing window start as +infinity so it sorts
// after all defined values.
func windowStartMs(j snapshot.CorridorJunction) float64 {
	if j.WindowStart == nil {
		return math.Inf(1)
	}
	return float64(j.WindowStart.UnixMilli())
}

// NextJunctionID picks the junction whose window start is closest in
// absolute time to the reference now, preferring server time over the
// local clock. This is purely temporal proximity, not sort order. Returns
// "" when no junction has a usable window start.
func NextJunctionID(ordered []snapshot.CorridorJunction, serverTime *time.Time, localNow time.Time) string {
	ref := freshness.ReferenceTime(serverTime, localNow)

	bestID := ""
	bestDistance := math.Inf(1)
	for _, j := range ordered {
		if j.WindowStart == nil {
			continue
		}
		distance := math.Abs(float64(j.WindowStart.Sub(ref)))
		if distance < bestDistance {
			bestDistance = distance
			bestID = j.ID
		}
	}
	return bestID
}

// CorridorEmptyReason explains why no corridor is being shown. Returns ""
// when the corridor is populated.
func CorridorEmptyReason(snap *snapshot.TripSnapshot) string {
	switch {
	case snap == nil:
		return "No data loaded - waiting for backend snapshot."
	case len(snap.Corridor) > 0:
		return ""
	case snap.Status == snapshot.StatusArrived:
		return "Trip has ARRIVED - corridor updates are frozen."
	case snap.RouteGeometry == nil:
		return "Corridor not available yet - route still being computed."
	default:
		return "No junctions detected - using advisory ETA only."
	}
}
