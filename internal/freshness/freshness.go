// Package freshness classifies a snapshot as LIVE or STALE from the age of
// its last GPS sample.
package freshness

import "time"

// Label is the freshness classification shown to operators.
type Label string

const (
	Live  Label = "LIVE"
	Stale Label = "STALE"
)

// LiveThreshold is the maximum sample age still considered LIVE. Sized for
// a 2-3s polling cadence plus network jitter.
const LiveThreshold = 10 * time.Second

// Freshness is the evaluated classification. AgeSeconds is nil when the
// last sample time is unavailable.
type Freshness struct {
	Label      Label `json:"label"`
	AgeSeconds *int  `json:"age_seconds"`
}

// ReferenceTime prefers the backend-reported server time over the local
// clock, avoiding false staleness from client/server clock skew when the
// backend opts in.
func ReferenceTime(serverTime *time.Time, localNow time.Time) time.Time {
	if serverTime != nil {
		return *serverTime
	}
	return localNow
}

// Evaluate classifies the sample age of lastGPSAt against the reference
// time derived from serverTime and localNow. An unavailable sample time is
// unconditionally STALE with a nil age, regardless of serverTime.
func Evaluate(lastGPSAt, serverTime *time.Time, localNow time.Time) Freshness {
	if lastGPSAt == nil {
		return Freshness{Label: Stale}
	}

	ref := ReferenceTime(serverTime, localNow)
	age := int(ref.Sub(*lastGPSAt) / time.Second)
	if age < 0 {
		age = 0
	}

	label := Stale
	if time.Duration(age)*time.Second <= LiveThreshold {
		label = Live
	}
	return Freshness{Label: label, AgeSeconds: &age}
}
