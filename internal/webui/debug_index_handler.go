package webui

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/davecgh/go-spew/spew"

	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/appconf"
)

//go:embed debug_index.html
var templateFS embed.FS

type debugData struct {
	Title string
	Pre   string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	content := spew.Sdump(data)
	w.Header().Set("Content-Type", "text/html")
	tmpl, err := template.ParseFS(templateFS, "debug_index.html")
	if err != nil {
		// Log the actual error server-side
		slog.Error("failed to parse debug template", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	dataStruct := debugData{
		Title: title,
		Pre:   content,
	}

	if err := tmpl.Execute(w, dataStruct); err != nil {
		slog.Error("failed to execute debug template", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	if webUI.Config.Env == appconf.Production {
		http.NotFound(w, r)
		return
	}
	dataType := r.URL.Query().Get("dataType")

	var data interface{}
	var title string

	switch dataType {
	case "snapshot":
		data = webUI.Transport.Snapshot()
		title = "Transport - Canonical Snapshot"
	case "history":
		data = webUI.Transport.History().Samples()
		title = "Derived - ETA History (seconds)"
	case "transport":
		data = map[string]interface{}{
			"trip_id":      webUI.Transport.TripID(),
			"mode":         webUI.Transport.Mode(),
			"stale":        webUI.Transport.Stale(),
			"last_sync_at": webUI.Transport.LastSyncAt(),
			"last_error":   webUI.Transport.LastError(),
		}
		title = "Transport - Sync State"
	case "config":
		data = webUI.Config
		title = "Application - Config"
	default:
		data = map[string]string{
			"error": "Please use one of the following: snapshot, history, transport, config.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}
