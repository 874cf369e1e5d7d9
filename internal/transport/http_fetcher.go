package transport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bhuvanesh8399/AI-Assisted-Ambulance-Delay-Prediction/internal/logging"
)

// snapshotHTTPClient is a dedicated HTTP client for snapshot polling,
// configured with explicit timeouts and transport limits to avoid the
// pitfalls of http.DefaultClient (no timeout, shared global state). The
// transport is cloned from http.DefaultTransport to preserve important
// defaults (ProxyFromEnvironment, DialContext, HTTP/2, keepalives).
var snapshotHTTPClient = newSnapshotHTTPClient()

func newSnapshotHTTPClient() *http.Client {
	var transport *http.Transport
	if t, ok := http.DefaultTransport.(*http.Transport); ok {
		transport = t.Clone()
	} else {
		transport = &http.Transport{}
	}
	transport.MaxIdleConns = 10
	transport.MaxIdleConnsPerHost = 4
	transport.IdleConnTimeout = 90 * time.Second
	transport.TLSHandshakeTimeout = 10 * time.Second
	transport.ExpectContinueTimeout = 1 * time.Second

	return &http.Client{
		// Absolute safety net per request; the poller also cancels the
		// in-flight request before issuing the next one, and the
		// stricter of the two wins.
		Timeout:   10 * time.Second,
		Transport: transport,
	}
}

// maxSnapshotBody bounds a single snapshot response.
const maxSnapshotBody = 5 * 1024 * 1024

// HTTPFetcher pulls raw snapshot payloads from the backend's snapshot
// endpoint.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
	headers map[string]string
}

// NewHTTPFetcher creates a fetcher against baseURL. A nil client uses the
// package's tuned default.
func NewHTTPFetcher(baseURL string, client *http.Client, headers map[string]string) *HTTPFetcher {
	if client == nil {
		client = snapshotHTTPClient
	}
	return &HTTPFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		headers: headers,
	}
}

// FetchSnapshot performs one GET against the snapshot endpoint. Any
// non-2xx response is a fetch fault.
func (f *HTTPFetcher) FetchSnapshot(ctx context.Context, tripID string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/api/traffic/snapshot?trip_id=%s", f.baseURL, url.QueryEscape(tripID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	for key, value := range f.headers {
		req.Header.Add(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute snapshot request: %w", err)
	}
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "snapshot_fetcher")),
		"http_response_body")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("snapshot fetch failed: %s returned %s", endpoint, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > maxSnapshotBody {
		return nil, fmt.Errorf("snapshot response exceeds size limit of %d bytes", maxSnapshotBody)
	}
	return body, nil
}
