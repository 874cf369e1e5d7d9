package snapshot

import "encoding/json"

// Frame types carrying a snapshot payload on multi-channel streams.
var snapshotFrameTypes = map[string]bool{
	"trip_snapshot": true,
	"trip_update":   true,
	"snapshot":      true,
}

// DecodeFrame extracts the raw snapshot payload from an inbound stream
// frame. Frames arrive either as the bare payload consumed by Normalize or
// as a tagged envelope {"type": ..., "data": {...}}. The second return is
// false for frames that carry no snapshot: keepalive acks, unknown envelope
// types, and frames that are not JSON objects. Callers drop those silently.
func DecodeFrame(frame []byte) ([]byte, bool) {
	var envelope struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(frame, &envelope); err != nil {
		return nil, false
	}
	if envelope.Type == "" {
		// Bare payload. Reject non-objects up front so a frame like
		// `"pong"` or `42` is dropped rather than normalized.
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(frame, &probe); err != nil {
			return nil, false
		}
		return frame, true
	}
	if !snapshotFrameTypes[envelope.Type] || len(envelope.Data) == 0 {
		return nil, false
	}
	return envelope.Data, true
}
