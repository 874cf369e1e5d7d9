package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcherFetchSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/traffic/snapshot", r.URL.Path)
		assert.Equal(t, "trip 1", r.URL.Query().Get("trip_id"))
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		w.Write([]byte(`{"trip_id":"trip 1"}`))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.URL, nil, map[string]string{"X-API-Key": "secret"})
	body, err := fetcher.FetchSnapshot(context.Background(), "trip 1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"trip_id":"trip 1"}`, string(body))
}

func TestHTTPFetcherNon2xxIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.URL, nil, nil)
	_, err := fetcher.FetchSnapshot(context.Background(), "trip-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestHTTPFetcherHonorsContextCancellation(t *testing.T) {
	blocked := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		<-blocked
	}))
	defer server.Close()
	defer close(blocked)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewHTTPFetcher(server.URL, nil, nil)
	_, err := fetcher.FetchSnapshot(ctx, "trip-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStreamURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		tripID  string
		want    string
		wantErr bool
	}{
		{
			name:    "http upgrades to ws",
			baseURL: "http://localhost:8080",
			tripID:  "trip-1",
			want:    "ws://localhost:8080/ws/trips/trip-1",
		},
		{
			name:    "https upgrades to wss",
			baseURL: "https://dispatch.example.com",
			tripID:  "trip-1",
			want:    "wss://dispatch.example.com/ws/trips/trip-1",
		},
		{
			name:    "trailing slash and base path preserved",
			baseURL: "http://localhost:8080/backend/",
			tripID:  "trip-1",
			want:    "ws://localhost:8080/backend/ws/trips/trip-1",
		},
		{
			name:    "trip id is path escaped",
			baseURL: "http://localhost:8080",
			tripID:  "trip/one",
			want:    "ws://localhost:8080/ws/trips/trip%2Fone",
		},
		{
			name:    "ws scheme passes through",
			baseURL: "ws://localhost:8080",
			tripID:  "trip-1",
			want:    "ws://localhost:8080/ws/trips/trip-1",
		},
		{
			name:    "unsupported scheme rejected",
			baseURL: "ftp://localhost",
			tripID:  "trip-1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StreamURL(tt.baseURL, tt.tripID)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
