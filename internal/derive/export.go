package derive

import (
	"fmt"
	"strings"

	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/snapshot"
)

// ExportText renders the advisory corridor plan as deterministic plain
// text for the clipboard sink. The ordered list should come from
// SortCorridor so the rendering matches what the operator sees. The result
// is never empty: a nil snapshot and an empty corridor both produce
// explicit sentinel lines.
func ExportText(snap *snapshot.TripSnapshot, fallbackTripID string, ordered []snapshot.CorridorJunction) string {
	tripID := fallbackTripID
	eta := FormatMinutes(nil)
	risk := string(snapshot.RiskUnavailable)
	if snap != nil {
		if snap.TripID != "" {
			tripID = snap.TripID
		}
		eta = FormatMinutes(snap.FinalETAMinutes)
		risk = string(snap.Risk)
	}
	if tripID == "" {
		tripID = "UNKNOWN_TRIP"
	}

	var lines []string
	lines = append(lines,
		"TRAFFIC CONTROL - ADVISORY GREEN CORRIDOR PLAN",
		fmt.Sprintf("Trip ID: %s", tripID),
		fmt.Sprintf("Final ETA: %s", eta),
		fmt.Sprintf("Delay Risk: %s", risk),
		"",
	)

	if snap == nil {
		lines = append(lines, "Corridor: Unavailable (no snapshot loaded)")
		return strings.Join(lines, "\n")
	}
	if len(ordered) == 0 {
		lines = append(lines, "Corridor: Unavailable (no junctions detected - advisory ETA only)")
		return strings.Join(lines, "\n")
	}

	lines = append(lines, "Ordered Junction Windows (Priority, earliest first):")
	for i, j := range ordered {
		name := j.Label
		if j.Name != "" {
			name = fmt.Sprintf("%s - %s", j.Label, j.Name)
		}
		lines = append(lines, fmt.Sprintf("%d. [%s] %s | Window: %s", i+1, j.Priority, name, formatWindow(j)))
	}
	return strings.Join(lines, "\n")
}

// formatWindow renders a junction window as HH:MM-HH:MM UTC, or the
// Unavailable sentinel when either bound is missing.
func formatWindow(j snapshot.CorridorJunction) string {
	if j.WindowStart == nil || j.WindowEnd == nil {
		return "Unavailable"
	}
	return fmt.Sprintf("%s-%s", j.WindowStart.UTC().Format("15:04"), j.WindowEnd.UTC().Format("15:04"))
}
