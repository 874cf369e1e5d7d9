package viewapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/logging"
)

// ResponseModel is the JSON envelope shared by every view endpoint.
type ResponseModel struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Text        string `json:"text"`
	Data        any    `json:"data,omitempty"`
}

func setJSONResponseType(w *http.ResponseWriter) {
	(*w).Header().Set("Content-Type", "application/json")
}

func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, data any) {
	setJSONResponseType(&w)
	response := ResponseModel{
		Code:        http.StatusOK,
		CurrentTime: api.Clock.Now().UnixMilli(),
		Text:        "OK",
		Data:        data,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		api.serverErrorResponse(w, r, err)
	}
}

func (api *RestAPI) sendError(w http.ResponseWriter, r *http.Request, code int, message string) {
	setJSONResponseType(&w)
	w.WriteHeader(code)

	response := ResponseModel{
		Code:        code,
		CurrentTime: api.Clock.Now().UnixMilli(),
		Text:        message,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		api.serverErrorResponse(w, r, err)
	}
}

func (api *RestAPI) sendUnauthorized(w http.ResponseWriter, r *http.Request) {
	api.sendError(w, r, http.StatusUnauthorized, "permission denied")
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(api.Logger, "request failed", err,
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
