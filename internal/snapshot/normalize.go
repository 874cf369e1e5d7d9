package snapshot

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/twpayne/go-polyline"
)

// Key probe orders for fields that appeared under different names across
// historical backend payload versions. The first structurally valid value
// wins.
var (
	etaKeys        = []string{"final_eta_minutes", "final_eta", "eta_minutes"}
	riskKeys       = []string{"risk", "delay_risk"}
	lastGPSKeys    = []string{"last_gps_at", "gps.last_gps_at", "gps.recorded_at"}
	serverTimeKeys = []string{"server_time", "now"}
	corridorKeys   = []string{"corridor", "corridor_plan", "junctions"}
	geometryKeys   = []string{"route_geometry", "geometry", "route"}
	polylineKeys   = []string{"route_polyline", "polyline"}
	ambLatKeys     = []string{"ambulance_lat", "gps.lat", "current_lat"}
	ambLonKeys     = []string{"ambulance_lon", "gps.lon", "current_lon"}
	hospLatKeys    = []string{"hospital_lat", "hospital.lat"}
	hospLonKeys    = []string{"hospital_lon", "hospital.lon"}
	hospNameKeys   = []string{"hospital_name", "hospital.name"}
	winStartKeys   = []string{"eta_window_start", "window_start", "start"}
	winEndKeys     = []string{"eta_window_end", "window_end", "end"}
)

// Normalize converts a raw backend payload into a canonical TripSnapshot.
// It never fails: malformed or missing fields degrade to their unavailable
// sentinel, and an unparseable payload yields a fully degraded snapshot
// carrying fallbackTripID. The payload may be wrapped one level deep as
// {"data": {...}}.
func Normalize(raw []byte, fallbackTripID string) TripSnapshot {
	snap := TripSnapshot{
		TripID:   fallbackTripID,
		Status:   StatusUnknown,
		Risk:     RiskUnavailable,
		Corridor: []CorridorJunction{},
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return snap
	}
	outer, ok := decoded.(map[string]any)
	if !ok {
		return snap
	}
	data := outer
	wrapped := false
	if inner, ok := outer["data"].(map[string]any); ok {
		data = inner
		wrapped = true
	}

	if id, ok := stringField(data, "trip_id"); ok {
		snap.TripID = id
	}
	snap.Status = statusField(data)
	snap.Risk = riskField(data)

	if eta, ok := numberField(data, etaKeys...); ok {
		snap.FinalETAMinutes = &eta
	}

	snap.LastGPSAt = timeField(data, lastGPSKeys...)
	snap.ServerTime = timeField(data, serverTimeKeys...)
	if snap.ServerTime == nil && wrapped {
		// Some payload versions report server time on the envelope.
		snap.ServerTime = timeField(outer, serverTimeKeys...)
	}
	snap.StartedAt = timeField(data, "started_at")

	snap.Ambulance = positionField(data, ambLatKeys, ambLonKeys)
	snap.Hospital = positionField(data, hospLatKeys, hospLonKeys)
	if name, ok := stringField(data, hospNameKeys...); ok {
		snap.HospitalName = name
	}

	snap.Corridor = corridorField(data)
	snap.RouteGeometry = geometryField(data)

	return snap
}

// lookup resolves a dot-separated path of object keys.
func lookup(m map[string]any, path string) (any, bool) {
	current := m
	parts := strings.Split(path, ".")
	for i, part := range parts {
		v, ok := current[part]
		if !ok || v == nil {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		current, ok = v.(map[string]any)
		if !ok {
			return nil, false
		}
	}
	return nil, false
}

// stringField returns the first probed value that is a non-empty string
// after trimming.
func stringField(m map[string]any, paths ...string) (string, bool) {
	for _, path := range paths {
		v, ok := lookup(m, path)
		if !ok {
			continue
		}
		if s, ok := stringValue(v); ok {
			return s, true
		}
	}
	return "", false
}

func stringValue(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// numberField returns the first probed value that is finite after numeric
// coercion. Numeric strings are coerced; anything else is rejected.
func numberField(m map[string]any, paths ...string) (float64, bool) {
	for _, path := range paths {
		v, ok := lookup(m, path)
		if !ok {
			continue
		}
		if n, ok := numberValue(v); ok {
			return n, true
		}
	}
	return 0, false
}

func numberValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case json.Number:
		f, err := n.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// timestampFormats are tried in order for string timestamps. Values are
// canonicalized to UTC so downstream comparisons are safe.
var timestampFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func timeField(m map[string]any, paths ...string) *time.Time {
	for _, path := range paths {
		v, ok := lookup(m, path)
		if !ok {
			continue
		}
		if t := timeValue(v); t != nil {
			return t
		}
	}
	return nil
}

func timeValue(v any) *time.Time {
	switch ts := v.(type) {
	case string:
		s := strings.TrimSpace(ts)
		for _, format := range timestampFormats {
			if t, err := time.Parse(format, s); err == nil {
				u := t.UTC()
				return &u
			}
		}
		return nil
	case float64, json.Number:
		n, ok := numberValue(ts)
		if !ok || n <= 0 {
			return nil
		}
		// Heuristic: epoch values past the year 33658 in seconds are
		// really milliseconds.
		var t time.Time
		if n >= 1e12 {
			t = time.UnixMilli(int64(n))
		} else {
			t = time.Unix(int64(n), 0)
		}
		u := t.UTC()
		return &u
	default:
		return nil
	}
}

func statusField(m map[string]any) TripStatus {
	s, ok := stringField(m, "status")
	if !ok {
		return StatusUnknown
	}
	switch TripStatus(s) {
	case StatusEnRoute, StatusNearArrival, StatusArrived:
		return TripStatus(s)
	}
	return StatusUnknown
}

func riskField(m map[string]any) RiskLevel {
	s, ok := stringField(m, riskKeys...)
	if !ok {
		return RiskUnavailable
	}
	switch RiskLevel(s) {
	case RiskLow, RiskMed, RiskHigh:
		return RiskLevel(s)
	}
	return RiskUnavailable
}

func priorityValue(v any) JunctionPriority {
	s, ok := stringValue(v)
	if !ok {
		return PriorityUnavailable
	}
	switch JunctionPriority(s) {
	case PriorityHigh, PriorityMed, PriorityLow:
		return JunctionPriority(s)
	}
	return PriorityUnavailable
}

// positionField requires both coordinates to be valid; a half-usable
// position degrades to unavailable as a whole.
func positionField(m map[string]any, latPaths, lonPaths []string) *LatLon {
	lat, latOK := numberField(m, latPaths...)
	lon, lonOK := numberField(m, lonPaths...)
	if !latOK || !lonOK {
		return nil
	}
	return &LatLon{Lat: lat, Lon: lon}
}

// corridorField normalizes each junction independently so that one
// malformed entry cannot disturb the ordering of the rest. Missing ids and
// labels get index-derived fallbacks, keeping ids unique within a snapshot.
func corridorField(m map[string]any) []CorridorJunction {
	v, ok := firstPresent(m, corridorKeys...)
	if !ok {
		return []CorridorJunction{}
	}
	list, ok := v.([]any)
	if !ok {
		return []CorridorJunction{}
	}

	corridor := make([]CorridorJunction, 0, len(list))
	for i, item := range list {
		junction := CorridorJunction{
			ID:       fmt.Sprintf("j_%d", i),
			Label:    fmt.Sprintf("Step %d", i+1),
			Priority: PriorityUnavailable,
		}
		if jm, ok := item.(map[string]any); ok {
			if id, ok := stringField(jm, "id"); ok {
				junction.ID = id
			}
			if label, ok := stringField(jm, "label"); ok {
				junction.Label = label
			}
			if name, ok := stringField(jm, "name"); ok {
				junction.Name = name
			}
			if p, ok := lookup(jm, "priority"); ok {
				junction.Priority = priorityValue(p)
			}
			junction.WindowStart = timeField(jm, winStartKeys...)
			junction.WindowEnd = timeField(jm, winEndKeys...)
		}
		corridor = append(corridor, junction)
	}
	return corridor
}

func firstPresent(m map[string]any, paths ...string) (any, bool) {
	for _, path := range paths {
		if v, ok := lookup(m, path); ok {
			return v, true
		}
	}
	return nil, false
}

// geometryField accepts a GeoJSON-like coordinates object, a bare
// coordinate array, or an encoded polyline string. Each pair is validated
// independently; fewer than two surviving vertices collapses the whole
// geometry to unavailable.
func geometryField(m map[string]any) []Coordinate {
	if v, ok := firstPresent(m, geometryKeys...); ok {
		var pairs []any
		switch g := v.(type) {
		case map[string]any:
			if c, ok := firstPresent(g, "coordinates", "coords"); ok {
				pairs, _ = c.([]any)
			}
		case []any:
			pairs = g
		}
		if coords := validCoordinates(pairs); coords != nil {
			return coords
		}
	}

	if s, ok := stringField(m, polylineKeys...); ok {
		return decodePolyline(s)
	}
	return nil
}

func validCoordinates(pairs []any) []Coordinate {
	if pairs == nil {
		return nil
	}
	coords := make([]Coordinate, 0, len(pairs))
	for _, p := range pairs {
		pair, ok := p.([]any)
		if !ok || len(pair) < 2 {
			continue
		}
		lon, lonOK := numberValue(pair[0])
		lat, latOK := numberValue(pair[1])
		if !lonOK || !latOK {
			continue
		}
		coords = append(coords, Coordinate{Lon: lon, Lat: lat})
	}
	if len(coords) < 2 {
		return nil
	}
	return coords
}

func decodePolyline(encoded string) []Coordinate {
	decoded, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil
	}
	coords := make([]Coordinate, 0, len(decoded))
	for _, pair := range decoded {
		if len(pair) < 2 {
			continue
		}
		// Polyline order is lat,lon; canonical order is lon,lat.
		coords = append(coords, Coordinate{Lon: pair[1], Lat: pair[0]})
	}
	if len(coords) < 2 {
		return nil
	}
	return coords
}
