package transport

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// StreamURL derives the streaming endpoint for a trip from the HTTP base
// URL, upgrading the scheme (http -> ws, https -> wss).
func StreamURL(baseURL, tripID string) (string, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	switch parsed.Scheme {
	case "http":
		parsed.Scheme = "ws"
	case "https":
		parsed.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q in base URL", parsed.Scheme)
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/") + "/ws/trips/" + url.PathEscape(tripID)
	parsed.RawQuery = ""
	return parsed.String(), nil
}

// WebsocketDialer opens streaming connections over websockets.
type WebsocketDialer struct {
	baseURL string
	dialer  *websocket.Dialer
}

// NewWebsocketDialer creates a dialer against baseURL.
func NewWebsocketDialer(baseURL string) *WebsocketDialer {
	return &WebsocketDialer{
		baseURL: baseURL,
		dialer: &websocket.Dialer{
			Proxy:            websocket.DefaultDialer.Proxy,
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// Dial connects to the trip's stream endpoint.
func (d *WebsocketDialer) Dial(ctx context.Context, tripID string) (StreamConn, error) {
	endpoint, err := StreamURL(d.baseURL, tripID)
	if err != nil {
		return nil, err
	}
	conn, _, err := d.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream to %s: %w", endpoint, err)
	}
	return &wsConn{conn: conn}, nil
}

type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) ReadFrame() ([]byte, error) {
	_, payload, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// WriteKeepalive sends the literal "ping" text frame the backend expects.
func (c *wsConn) WriteKeepalive() error {
	return c.conn.WriteMessage(websocket.TextMessage, []byte("ping"))
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}
