package viewapi

import (
	"fmt"
	"net/http"

	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/derive"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/snapshot"
)

// exportHandler renders the corridor plan as a plain-text advisory
// download. The export always succeeds; missing data is spelled out in
// the body rather than turned into an error status.
func (api *RestAPI) exportHandler(w http.ResponseWriter, r *http.Request) {
	snap := api.Transport.Snapshot()

	var ordered []snapshot.CorridorJunction
	if snap != nil {
		ordered = derive.SortCorridor(snap.Corridor, false)
	}

	tripID := api.Transport.TripID()
	body := derive.ExportText(snap, tripID, ordered)

	if tripID == "" {
		tripID = "UNKNOWN_TRIP"
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "corridor_plan_"+tripID+".txt"))
	if _, err := w.Write([]byte(body)); err != nil {
		api.serverErrorResponse(w, r, err)
	}
}
