package viewapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/transport"
)

type transportModeRequest struct {
	Mode string `json:"mode"`
}

type transportTripRequest struct {
	TripID string `json:"trip_id"`
}

// TransportStateData echoes the transport state after a control request.
type TransportStateData struct {
	TripID string         `json:"trip_id"`
	Mode   transport.Mode `json:"mode"`
}

// transportModeHandler switches between polling and streaming for the
// selected trip.
func (api *RestAPI) transportModeHandler(w http.ResponseWriter, r *http.Request) {
	var req transportModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var mode transport.Mode
	switch transport.Mode(strings.ToLower(req.Mode)) {
	case transport.ModePolling:
		mode = transport.ModePolling
	case transport.ModeStreaming:
		mode = transport.ModeStreaming
	default:
		api.sendError(w, r, http.StatusBadRequest, "mode must be polling or streaming")
		return
	}

	if err := api.Transport.SetMode(mode); err != nil {
		switch {
		case errors.Is(err, transport.ErrNoTrip):
			api.sendError(w, r, http.StatusConflict, "no trip selected")
		case errors.Is(err, transport.ErrClosed):
			api.sendError(w, r, http.StatusServiceUnavailable, "transport is shut down")
		default:
			api.serverErrorResponse(w, r, err)
		}
		return
	}

	api.sendResponse(w, r, TransportStateData{
		TripID: api.Transport.TripID(),
		Mode:   api.Transport.Mode(),
	})
}

// transportTripHandler selects the trip to follow.
func (api *RestAPI) transportTripHandler(w http.ResponseWriter, r *http.Request) {
	var req transportTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	tripID := strings.TrimSpace(req.TripID)
	if tripID == "" {
		api.sendError(w, r, http.StatusBadRequest, "trip_id is required")
		return
	}

	if err := api.Transport.Start(tripID); err != nil {
		if errors.Is(err, transport.ErrClosed) {
			api.sendError(w, r, http.StatusServiceUnavailable, "transport is shut down")
			return
		}
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, TransportStateData{
		TripID: api.Transport.TripID(),
		Mode:   api.Transport.Mode(),
	})
}
