package viewapi

import (
	"net/http"
	"strconv"

	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/derive"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/freshness"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/snapshot"
)

// TrafficViewData is the corridor table the traffic-control dashboard
// renders: junctions ordered by priority then window start.
type TrafficViewData struct {
	TripID         string                      `json:"trip_id"`
	Junctions      []snapshot.CorridorJunction `json:"junctions"`
	NextJunctionID string                      `json:"next_junction_id,omitempty"`
	EmptyReason    string                      `json:"empty_reason,omitempty"`
	HighOnly       bool                        `json:"high_only"`
	HasGeometry    bool                        `json:"has_geometry"`
	MapNotice      string                      `json:"map_notice,omitempty"`
	Freshness      freshness.Freshness         `json:"freshness"`
	Stale          bool                        `json:"stale"`
}

func (api *RestAPI) trafficViewHandler(w http.ResponseWriter, r *http.Request) {
	highOnly := false
	if raw := r.URL.Query().Get("high_only"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			api.sendError(w, r, http.StatusBadRequest, "high_only must be a boolean")
			return
		}
		highOnly = parsed
	}

	now := api.Clock.Now()
	snap := api.Transport.Snapshot()

	view := TrafficViewData{
		TripID:    api.Transport.TripID(),
		Junctions: []snapshot.CorridorJunction{},
		HighOnly:  highOnly,
		MapNotice: derive.MapFallback(nil, nil),
		Freshness: freshness.Evaluate(nil, nil, now),
		Stale:     api.Transport.Stale(),
	}

	if snap == nil {
		view.EmptyReason = derive.CorridorEmptyReason(nil)
		api.sendResponse(w, r, view)
		return
	}

	ordered := derive.SortCorridor(snap.Corridor, highOnly)
	view.TripID = snap.TripID
	view.Junctions = ordered
	view.NextJunctionID = derive.NextJunctionID(ordered, snap.ServerTime, now)
	view.HasGeometry = snap.RouteGeometry != nil
	view.MapNotice = derive.MapFallback(snap.Ambulance, snap.Hospital)
	view.EmptyReason = derive.CorridorEmptyReason(snap)
	if view.EmptyReason == "" && len(ordered) == 0 && highOnly {
		view.EmptyReason = "No HIGH priority junctions in the current plan."
	}
	view.Freshness = freshness.Evaluate(snap.LastGPSAt, snap.ServerTime, now)

	api.sendResponse(w, r, view)
}
