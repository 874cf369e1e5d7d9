package viewapi

import (
	"net/http"
	"time"

	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/derive"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/freshness"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/snapshot"
	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/transport"
)

// HospitalViewData is everything the hospital dashboard renders for the
// selected trip. Missing inputs degrade field by field instead of failing
// the whole view.
type HospitalViewData struct {
	TripID       string              `json:"trip_id"`
	Status       snapshot.TripStatus `json:"status"`
	HospitalName string              `json:"hospital_name,omitempty"`

	EtaText       string   `json:"eta_text"`
	EtaMinutes    *float64 `json:"eta_minutes"`
	CountdownMs   *int64   `json:"countdown_ms"`
	CountdownText string   `json:"countdown_text,omitempty"`
	ProgressPct   *float64 `json:"progress_pct"`

	Risk       snapshot.RiskLevel  `json:"risk"`
	DelaySpike bool                `json:"delay_spike"`
	Trend      derive.Trend        `json:"trend"`
	EtaHistory []float64           `json:"eta_history_seconds"`
	PrepNotice string              `json:"prep_notice,omitempty"`
	Freshness  freshness.Freshness `json:"freshness"`

	Ambulance            *snapshot.LatLon `json:"ambulance"`
	Hospital             *snapshot.LatLon `json:"hospital"`
	MapNotice            string           `json:"map_notice,omitempty"`
	DistanceToHospitalKm *float64         `json:"distance_to_hospital_km"`

	Mode       transport.Mode `json:"mode"`
	Stale      bool           `json:"stale"`
	SyncError  string         `json:"sync_error,omitempty"`
	LastSyncAt *time.Time     `json:"last_sync_at"`
}

func (api *RestAPI) hospitalViewHandler(w http.ResponseWriter, r *http.Request) {
	now := api.Clock.Now()
	snap := api.Transport.Snapshot()
	lastSyncAt := api.Transport.LastSyncAt()
	history := api.Transport.History()

	view := HospitalViewData{
		TripID:     api.Transport.TripID(),
		Status:     snapshot.StatusUnknown,
		Risk:       snapshot.RiskUnavailable,
		EtaText:    derive.FormatMinutes(nil),
		Trend:      history.Trend(),
		EtaHistory: history.Samples(),
		Freshness:  freshness.Evaluate(nil, nil, now),
		MapNotice:  derive.MapFallback(nil, nil),
		Mode:       api.Transport.Mode(),
		Stale:      api.Transport.Stale(),
	}
	if err := api.Transport.LastError(); err != nil {
		view.SyncError = err.Error()
	}
	if !lastSyncAt.IsZero() {
		view.LastSyncAt = &lastSyncAt
	}

	if snap != nil {
		countdown := derive.Countdown(snap, lastSyncAt, now)

		view.TripID = snap.TripID
		view.Status = derive.EffectiveStatus(snap, countdown)
		view.HospitalName = snap.HospitalName
		view.EtaText = derive.FormatMinutes(snap.FinalETAMinutes)
		view.EtaMinutes = snap.FinalETAMinutes
		view.CountdownMs = countdown
		if countdown != nil {
			view.CountdownText = derive.FormatCountdown(*countdown)
		}
		if baseline, ok := history.Baseline(); ok {
			if pct, ok := derive.Progress(countdown, baseline); ok {
				view.ProgressPct = &pct
			}
		}
		view.Risk = snap.Risk
		view.DelaySpike = history.Spike()
		view.PrepNotice = derive.PrepNotice(view.Status)
		view.Freshness = freshness.Evaluate(snap.LastGPSAt, snap.ServerTime, now)
		view.Ambulance = snap.Ambulance
		view.Hospital = snap.Hospital
		view.MapNotice = derive.MapFallback(snap.Ambulance, snap.Hospital)
		view.DistanceToHospitalKm = derive.DistanceToHospitalKm(snap)
	}

	api.sendResponse(w, r, view)
}
