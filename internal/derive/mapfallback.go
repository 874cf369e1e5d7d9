package derive

import (
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/snapshot"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/utils"
)

// MapFallback decides which explanatory sentence the map panel shows when
// position data is missing. Returns "" when both positions are available
// and the live map can render. The decision is independent of any
// rendering concern.
func MapFallback(ambulance, hospital *snapshot.LatLon) string {
	switch {
	case ambulance != nil && hospital != nil:
		return ""
	case ambulance == nil && hospital == nil:
		return "Live map unavailable: no position data reported yet."
	case ambulance == nil:
		return "Ambulance position unavailable: showing hospital only."
	default:
		return "Hospital position unavailable: showing ambulance only."
	}
}

// DistanceToHospitalKm returns the straight-line distance between the
// ambulance and the hospital, or nil when either position is unavailable.
func DistanceToHospitalKm(snap *snapshot.TripSnapshot) *float64 {
	if snap == nil || snap.Ambulance == nil || snap.Hospital == nil {
		return nil
	}
	km := utils.Distance(snap.Ambulance.Lat, snap.Ambulance.Lon, snap.Hospital.Lat, snap.Hospital.Lon) / 1000
	return &km
}
