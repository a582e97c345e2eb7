package contacts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// ErrRejected marks a command the node answered with a non-2xx status.
var ErrRejected = errors.New("command rejected")

// Fetcher reads the node's identity and state document.
type Fetcher interface {
	FetchOur(ctx context.Context) (string, error)
	FetchState(ctx context.Context) (Snapshot, error)
}

// Poster submits commands.
type Poster interface {
	Post(ctx context.Context, cmd Command) error
}

var (
	_ Fetcher = (*Client)(nil)
	_ Poster  = (*Client)(nil)
)

// Client talks to a node's contacts service over HTTP and websocket.
type Client struct {
	baseURL   *url.URL
	service   string
	cookie    string
	http      *http.Client
	dialer    *websocket.Dialer
	userAgent string
}

const (
	defaultNode      = "127.0.0.1:8080"
	defaultUserAgent = "rolo/0.1"
	requestTimeout   = 10 * time.Second
	maxIdentityBytes = 4 << 10
)

// NewClient builds a Client for the node at host:port (or URL) serving the
// given service. A non-empty cookie is sent with every request.
func NewClient(node, service, cookie string) (*Client, error) {
	base, err := parseBaseURL(node)
	if err != nil {
		return nil, err
	}
	service = strings.Trim(strings.TrimSpace(service), "/")
	if service == "" {
		service = DefaultNamespace
	}
	return &Client{
		baseURL: base,
		service: service,
		cookie:  strings.TrimSpace(cookie),
		http: &http.Client{
			Timeout: requestTimeout,
		},
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchOur returns the node identity served by /our.
func (c *Client) FetchOur(ctx context.Context) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	resp, err := c.send(ctx, http.MethodGet, "/our", "text/plain", nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxIdentityBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	our := strings.TrimSpace(string(body))
	if our == "" {
		return "", fmt.Errorf("api /our returned an empty identity")
	}
	return our, nil
}

// FetchState pulls the full state document.
func (c *Client) FetchState(ctx context.Context) (Snapshot, error) {
	if c == nil {
		return Snapshot{}, fmt.Errorf("client is nil")
	}
	resp, err := c.send(ctx, http.MethodGet, c.servicePath("state"), "application/json", nil)
	if err != nil {
		return Snapshot{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode response: %w", err)
	}
	return snap, nil
}

// Post submits one command. Only a 2xx answer counts as success; anything
// else wraps ErrRejected.
func (c *Client) Post(ctx context.Context, cmd Command) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	body, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encode %s: %w", cmd.Tag(), err)
	}
	resp, err := c.send(ctx, http.MethodPost, c.servicePath("post"), "application/json", body)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return nil
}

func (c *Client) servicePath(endpoint string) string {
	return "/" + c.service + "/" + endpoint
}

func (c *Client) send(ctx context.Context, method, path, accept string, body []byte) (*http.Response, error) {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.decorate(req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		if method == http.MethodPost {
			return nil, fmt.Errorf("%w: api %s returned status %d", ErrRejected, path, resp.StatusCode)
		}
		return nil, fmt.Errorf("api %s returned status %d", path, resp.StatusCode)
	}
	return resp, nil
}

func (c *Client) decorate(h http.Header) {
	h.Set("User-Agent", c.userAgent)
	if c.cookie != "" {
		h.Set("Cookie", c.cookie)
	}
}

func parseBaseURL(node string) (*url.URL, error) {
	trimmed := strings.TrimSpace(node)
	if trimmed == "" {
		trimmed = defaultNode
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse node %q: %w", node, err)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return nil, fmt.Errorf("parse node %q: unsupported scheme %q", node, u.Scheme)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
