// Package viewapi serves the dashboard's HTTP surface: derived hospital
// and traffic views, the raw canonical snapshot, the corridor export, and
// the transport controls.
package viewapi

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"

	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/app"
)

// RestAPI exposes the view endpoints on top of the shared Application.
type RestAPI struct {
	*app.Application

	rateLimiter *RateLimitMiddleware
}

func NewRestAPI(application *app.Application) *RestAPI {
	return &RestAPI{
		Application: application,
		rateLimiter: NewRateLimitMiddleware(application.Config.RateLimit, application.Config.ApiKeys, application.Clock),
	}
}

// SetRoutes registers all view endpoints on mux.
func (api *RestAPI) SetRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/hospital/view", api.requireAPIKey(api.hospitalViewHandler))
	mux.HandleFunc("GET /api/traffic/view", api.requireAPIKey(api.trafficViewHandler))
	mux.HandleFunc("GET /api/trip/snapshot", api.requireAPIKey(api.snapshotHandler))
	mux.HandleFunc("GET /api/trip/export", api.requireAPIKey(api.exportHandler))
	mux.HandleFunc("POST /api/transport/mode", api.requireAPIKey(api.transportModeHandler))
	mux.HandleFunc("POST /api/transport/trip", api.requireAPIKey(api.transportTripHandler))
	mux.HandleFunc("GET /healthz", api.healthHandler)
}

// Handler wraps mux in the full middleware chain. Order matters: the
// request ID must exist before the logger records it, and compression
// wraps everything so error responses are compressed too.
func (api *RestAPI) Handler(mux *http.ServeMux) http.Handler {
	var handler http.Handler = mux
	handler = api.rateLimiter.Handler()(handler)
	handler = MetricsHandler(api.Metrics)(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	handler = RequestIDMiddleware(handler)
	return gzhttp.GzipHandler(handler)
}

// Shutdown releases middleware resources.
func (api *RestAPI) Shutdown() {
	api.rateLimiter.Stop()
}

func (api *RestAPI) requireAPIKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.sendUnauthorized(w, r)
			return
		}
		next(w, r)
	}
}
