// Package snapshot defines the canonical trip snapshot model and the
// normalizer that converts loosely-shaped backend payloads into it.
//
// Every field of a normalized snapshot is either a well-typed value or an
// explicit unavailable sentinel: nil pointers for optional scalars,
// positions and timestamps, the empty string for optional strings, and
// dedicated enum members for closed sets. A snapshot is immutable once
// constructed and is replaced wholesale on every update.
package snapshot

import "time"

// TripStatus is the closed set of trip lifecycle states.
type TripStatus string

const (
	StatusEnRoute     TripStatus = "EN_ROUTE"
	StatusNearArrival TripStatus = "NEAR_ARRIVAL"
	StatusArrived     TripStatus = "ARRIVED"
	StatusUnknown     TripStatus = "UNKNOWN"
)

// RiskLevel is the closed set of delay risk classifications.
type RiskLevel string

const (
	RiskLow         RiskLevel = "LOW"
	RiskMed         RiskLevel = "MED"
	RiskHigh        RiskLevel = "HIGH"
	RiskUnavailable RiskLevel = "UNAVAILABLE"
)

// JunctionPriority is the closed set of corridor junction priorities.
type JunctionPriority string

const (
	PriorityHigh        JunctionPriority = "HIGH"
	PriorityMed         JunctionPriority = "MED"
	PriorityLow         JunctionPriority = "LOW"
	PriorityUnavailable JunctionPriority = "UNAVAILABLE"
)

// Rank orders priorities for corridor sorting: HIGH before MED before LOW,
// with UNAVAILABLE last.
func (p JunctionPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMed:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// LatLon is a WGS84 position.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Coordinate is a single route geometry vertex, longitude first to match
// the GeoJSON-like wire shape.
type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// CorridorJunction is one advisory junction time-window along the route.
// Junctions are owned by their parent snapshot and never mutated or merged
// across snapshots.
type CorridorJunction struct {
	ID          string           `json:"id"`
	Label       string           `json:"label"`
	Name        string           `json:"name,omitempty"`
	Priority    JunctionPriority `json:"priority"`
	WindowStart *time.Time       `json:"window_start"`
	WindowEnd   *time.Time       `json:"window_end"`
}

// TripSnapshot is one consistent, normalized view of a trip's state.
type TripSnapshot struct {
	TripID string     `json:"trip_id"`
	Status TripStatus `json:"status"`

	FinalETAMinutes *float64  `json:"final_eta_minutes"`
	Risk            RiskLevel `json:"risk"`

	LastGPSAt  *time.Time `json:"last_gps_at"`
	ServerTime *time.Time `json:"server_time"`
	StartedAt  *time.Time `json:"started_at,omitempty"`

	Ambulance *LatLon `json:"ambulance"`
	Hospital  *LatLon `json:"hospital"`

	// HospitalName is "" when the backend did not report one.
	HospitalName string `json:"hospital_name"`

	// Corridor is never nil; an empty corridor is an empty slice.
	Corridor []CorridorJunction `json:"corridor"`

	// RouteGeometry is nil unless at least two valid vertices survived
	// validation.
	RouteGeometry []Coordinate `json:"route_geometry"`
}
