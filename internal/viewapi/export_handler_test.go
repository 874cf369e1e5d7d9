package viewapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/appconf"
)

func TestExportHandlerWithCorridor(t *testing.T) {
	api, fetcher := newTestAPI(t, appconf.Config{}, nil)
	fetcher.setPayload([]byte(corridorPayload))
	startTrip(t, api, "trip-1")

	mux := serveRoutes(api)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/trip/export", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "corridor_plan_trip-1.txt")

	body := w.Body.String()
	assert.Contains(t, body, "ADVISORY GREEN CORRIDOR PLAN")
	assert.Contains(t, body, "trip-1")
	assert.Contains(t, body, "[HIGH]")
	// Priority ordering is reflected in the export.
	assert.Less(t, strings.Index(body, "J-3"), strings.Index(body, "J-1"))
}

func TestExportHandlerWithoutSnapshot(t *testing.T) {
	api, _ := newTestAPI(t, appconf.Config{}, nil)

	mux := serveRoutes(api)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/trip/export", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "UNKNOWN_TRIP")
	assert.Contains(t, body, "Unavailable")
}
