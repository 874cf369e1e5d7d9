// Package webui serves the operator-facing debug pages. These are plain
// HTML dumps of internal state, never exposed in production.
package webui

import (
	"net/http"

	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/app"
)

type WebUI struct {
	*app.Application
}

func NewWebUI(application *app.Application) *WebUI {
	return &WebUI{Application: application}
}

func (webUI *WebUI) SetRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /debug", webUI.debugIndexHandler)
}
