package contacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
)

// ErrMalformed marks a push message that did not decode as a Snapshot. The
// subscription stays usable after it.
var ErrMalformed = errors.New("malformed push message")

// Subscription is an open push channel. Each inbound text frame is a full
// state document.
type Subscription struct {
	conn *websocket.Conn
}

// Subscribe opens the push channel at /{service}/updates.
func (c *Client) Subscribe(ctx context.Context) (*Subscription, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	target := c.updatesURL()
	header := http.Header{}
	c.decorate(header)

	conn, resp, err := c.dialer.DialContext(ctx, target.String(), header)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("dial %s: status %d: %w", target.Path, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial %s: %w", target.Path, err)
	}
	return &Subscription{conn: conn}, nil
}

// Next blocks until the next snapshot arrives. Decode failures wrap
// ErrMalformed; any other error means the connection is gone.
func (s *Subscription) Next() (Snapshot, error) {
	for {
		kind, data, err := s.conn.ReadMessage()
		if err != nil {
			return Snapshot{}, err
		}
		if kind != websocket.TextMessage && kind != websocket.BinaryMessage {
			continue
		}
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return snap, nil
	}
}

// Close tears down the connection. It unblocks a pending Next.
func (s *Subscription) Close() error {
	return s.conn.Close()
}

func (c *Client) updatesURL() *url.URL {
	u := c.baseURL.ResolveReference(&url.URL{Path: c.servicePath("updates")})
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	return u
}
