package viewapi

import (
	"encoding/json"
	"net/http"
)

// HealthResponse represents the JSON response from the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// healthHandler reports liveness. The dashboard is healthy as soon as the
// transport manager exists; a trip not being selected yet is reported but
// not unhealthy.
func (api *RestAPI) healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if api.Application == nil || api.Transport == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status: "unavailable",
			Detail: "transport manager not initialized",
		})
		return
	}

	response := HealthResponse{Status: "ok"}
	if api.Transport.TripID() == "" {
		response.Detail = "no trip selected"
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}
