package viewapi

import (
	"net/http"
	"time"

	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/snapshot"
)

// SnapshotData wraps the raw canonical snapshot with its sync state.
// Snapshot is null before the first successful sync.
type SnapshotData struct {
	Snapshot   *snapshot.TripSnapshot `json:"snapshot"`
	Stale      bool                   `json:"stale"`
	LastSyncAt *time.Time             `json:"last_sync_at"`
}

func (api *RestAPI) snapshotHandler(w http.ResponseWriter, r *http.Request) {
	data := SnapshotData{
		Snapshot: api.Transport.Snapshot(),
		Stale:    api.Transport.Stale(),
	}
	if lastSyncAt := api.Transport.LastSyncAt(); !lastSyncAt.IsZero() {
		data.LastSyncAt = &lastSyncAt
	}
	api.sendResponse(w, r, data)
}
