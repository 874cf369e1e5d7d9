package snapshot

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fmtJSON(format string, args ...any) []byte {
	return []byte(fmt.Sprintf(format, args...))
}

func TestNormalize_FullPayload(t *testing.T) {
	raw := []byte(`{
		"trip_id": "trip-42",
		"status": "EN_ROUTE",
		"final_eta_minutes": 7.5,
		"risk": "HIGH",
		"last_gps_at": "2025-03-01T10:00:00Z",
		"server_time": "2025-03-01T10:00:02Z",
		"ambulance_lat": 12.97,
		"ambulance_lon": 77.59,
		"hospital_lat": 12.93,
		"hospital_lon": 77.61,
		"hospital_name": "City General",
		"corridor": [
			{"id": "jx-1", "label": "Ring Road", "priority": "HIGH", "eta_window_start": "2025-03-01T10:03:00Z", "eta_window_end": "2025-03-01T10:05:00Z"}
		],
		"route_geometry": {"coordinates": [[77.59, 12.97], [77.60, 12.95], [77.61, 12.93]]}
	}`)

	snap := Normalize(raw, "fallback")

	assert.Equal(t, "trip-42", snap.TripID)
	assert.Equal(t, StatusEnRoute, snap.Status)
	require.NotNil(t, snap.FinalETAMinutes)
	assert.Equal(t, 7.5, *snap.FinalETAMinutes)
	assert.Equal(t, RiskHigh, snap.Risk)

	require.NotNil(t, snap.LastGPSAt)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), *snap.LastGPSAt)
	require.NotNil(t, snap.ServerTime)

	require.NotNil(t, snap.Ambulance)
	assert.Equal(t, LatLon{Lat: 12.97, Lon: 77.59}, *snap.Ambulance)
	require.NotNil(t, snap.Hospital)
	assert.Equal(t, "City General", snap.HospitalName)

	require.Len(t, snap.Corridor, 1)
	assert.Equal(t, "jx-1", snap.Corridor[0].ID)
	assert.Equal(t, PriorityHigh, snap.Corridor[0].Priority)
	require.NotNil(t, snap.Corridor[0].WindowStart)

	require.Len(t, snap.RouteGeometry, 3)
	assert.Equal(t, Coordinate{Lon: 77.59, Lat: 12.97}, snap.RouteGeometry[0])
}

func TestNormalize_Deterministic(t *testing.T) {
	raw := []byte(`{"trip_id":"t1","status":"ARRIVED","final_eta":"3","corridor":[{"label":"A"}]}`)

	first := Normalize(raw, "fb")
	second := Normalize(raw, "fb")

	assert.Equal(t, first, second)
}

func TestNormalize_GarbageInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{{{{`},
		{"json array", `[1,2,3]`},
		{"json string", `"hello"`},
		{"empty object", `{}`},
		{"null", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Normalize([]byte(tt.raw), "fallback-id")

			assert.Equal(t, "fallback-id", snap.TripID)
			assert.Equal(t, StatusUnknown, snap.Status)
			assert.Equal(t, RiskUnavailable, snap.Risk)
			assert.Nil(t, snap.FinalETAMinutes)
			assert.Nil(t, snap.LastGPSAt)
			assert.Nil(t, snap.Ambulance)
			assert.NotNil(t, snap.Corridor)
			assert.Empty(t, snap.Corridor)
			assert.Nil(t, snap.RouteGeometry)
		})
	}
}

func TestNormalize_MistypedFieldsDegrade(t *testing.T) {
	raw := []byte(`{
		"trip_id": "   ",
		"status": "en_route",
		"final_eta_minutes": "not-a-number",
		"risk": "SEVERE",
		"last_gps_at": "yesterday-ish",
		"ambulance_lat": 12.9,
		"ambulance_lon": "NaN",
		"hospital_name": 42
	}`)

	snap := Normalize(raw, "fb")

	assert.Equal(t, "fb", snap.TripID, "blank trip id falls back")
	assert.Equal(t, StatusUnknown, snap.Status, "enum matching is case-sensitive")
	assert.Nil(t, snap.FinalETAMinutes)
	assert.Equal(t, RiskUnavailable, snap.Risk)
	assert.Nil(t, snap.LastGPSAt)
	assert.Nil(t, snap.Ambulance, "half-valid position degrades as a whole")
	assert.Equal(t, "", snap.HospitalName)
}

func TestNormalize_NumericStringCoercion(t *testing.T) {
	snap := Normalize([]byte(`{"final_eta_minutes": "12.5"}`), "fb")

	require.NotNil(t, snap.FinalETAMinutes)
	assert.Equal(t, 12.5, *snap.FinalETAMinutes)
}

func TestNormalize_KeyProbeOrder(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
	}{
		{"primary key wins", `{"final_eta_minutes": 5, "final_eta": 6, "eta_minutes": 7}`, 5},
		{"second key", `{"final_eta": 6, "eta_minutes": 7}`, 6},
		{"third key", `{"eta_minutes": 7}`, 7},
		{"invalid primary falls through", `{"final_eta_minutes": "x", "final_eta": 6}`, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Normalize([]byte(tt.raw), "fb")
			require.NotNil(t, snap.FinalETAMinutes)
			assert.Equal(t, tt.expected, *snap.FinalETAMinutes)
		})
	}
}

func TestNormalize_WrappedPayload(t *testing.T) {
	raw := []byte(`{"data": {"trip_id": "wrapped-1", "status": "NEAR_ARRIVAL"}, "server_time": "2025-03-01T09:00:00Z"}`)

	snap := Normalize(raw, "fb")

	assert.Equal(t, "wrapped-1", snap.TripID)
	assert.Equal(t, StatusNearArrival, snap.Status)
	require.NotNil(t, snap.ServerTime, "envelope-level server_time is honored")
	assert.Equal(t, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), *snap.ServerTime)
}

func TestNormalize_NestedPositionVariants(t *testing.T) {
	raw := []byte(`{
		"gps": {"lat": 1.5, "lon": 2.5, "last_gps_at": "2025-03-01T08:00:00Z"},
		"hospital": {"lat": 3.5, "lon": 4.5, "name": "General"}
	}`)

	snap := Normalize(raw, "fb")

	require.NotNil(t, snap.Ambulance)
	assert.Equal(t, LatLon{Lat: 1.5, Lon: 2.5}, *snap.Ambulance)
	require.NotNil(t, snap.Hospital)
	assert.Equal(t, LatLon{Lat: 3.5, Lon: 4.5}, *snap.Hospital)
	assert.Equal(t, "General", snap.HospitalName)
	require.NotNil(t, snap.LastGPSAt)
}

func TestNormalize_CorridorFallbacks(t *testing.T) {
	raw := []byte(`{"corridor": [
		{"id": "a", "label": "First", "priority": "MED"},
		"garbage entry",
		{"priority": "low"}
	]}`)

	snap := Normalize(raw, "fb")

	require.Len(t, snap.Corridor, 3, "malformed entries keep their position")

	assert.Equal(t, "a", snap.Corridor[0].ID)
	assert.Equal(t, PriorityMed, snap.Corridor[0].Priority)

	assert.Equal(t, "j_1", snap.Corridor[1].ID)
	assert.Equal(t, "Step 2", snap.Corridor[1].Label)
	assert.Equal(t, PriorityUnavailable, snap.Corridor[1].Priority)

	assert.Equal(t, "j_2", snap.Corridor[2].ID)
	assert.Equal(t, PriorityUnavailable, snap.Corridor[2].Priority, "lowercase priority rejected")
}

func TestNormalize_CorridorKeyVariants(t *testing.T) {
	for _, key := range []string{"corridor", "corridor_plan", "junctions"} {
		snap := Normalize([]byte(`{"`+key+`": [{"label": "X"}]}`), "fb")
		assert.Len(t, snap.Corridor, 1, "key %q", key)
	}
}

func TestNormalize_GeometryFiltering(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected int
	}{
		{"all valid", `{"route_geometry": {"coordinates": [[1,2],[3,4]]}}`, 2},
		{"invalid pair filtered", `{"route_geometry": {"coordinates": [[1,2],["x",4],[5,6]]}}`, 2},
		{"too few survivors", `{"route_geometry": {"coordinates": [[1,2],["x",4]]}}`, 0},
		{"coords alias", `{"geometry": {"coords": [[1,2],[3,4]]}}`, 2},
		{"bare array", `{"route": [[1,2],[3,4]]}`, 2},
		{"not a list", `{"route_geometry": {"coordinates": "oops"}}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Normalize([]byte(tt.raw), "fb")
			if tt.expected == 0 {
				assert.Nil(t, snap.RouteGeometry)
			} else {
				assert.Len(t, snap.RouteGeometry, tt.expected)
			}
		})
	}
}

func TestNormalize_PolylineGeometry(t *testing.T) {
	// Classic Google example polyline: (38.5,-120.2) (40.7,-120.95) (43.252,-126.453)
	raw := []byte(`{"route_polyline": "_p~iF~ps|U_ulLnnqC_mqNvxq` + "`" + `@"}`)

	snap := Normalize(raw, "fb")

	require.Len(t, snap.RouteGeometry, 3)
	assert.InDelta(t, -120.2, snap.RouteGeometry[0].Lon, 1e-4)
	assert.InDelta(t, 38.5, snap.RouteGeometry[0].Lat, 1e-4)
}

func TestNormalize_EpochTimestamps(t *testing.T) {
	secs := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC).Unix()
	millis := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC).UnixMilli()

	t.Run("seconds", func(t *testing.T) {
		snap := Normalize(fmtJSON(`{"last_gps_at": %d}`, secs), "fb")
		require.NotNil(t, snap.LastGPSAt)
		assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), *snap.LastGPSAt)
	})

	t.Run("milliseconds", func(t *testing.T) {
		snap := Normalize(fmtJSON(`{"last_gps_at": %d}`, millis), "fb")
		require.NotNil(t, snap.LastGPSAt)
		assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), *snap.LastGPSAt)
	})
}

func TestPriorityRank(t *testing.T) {
	assert.Less(t, PriorityHigh.Rank(), PriorityMed.Rank())
	assert.Less(t, PriorityMed.Rank(), PriorityLow.Rank())
	assert.Less(t, PriorityLow.Rank(), PriorityUnavailable.Rank())
	assert.Equal(t, 3, JunctionPriority("bogus").Rank())
}
