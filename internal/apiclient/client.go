// Package apiclient talks to a running adpulse daemon over its HTTP API.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/admybrand/adpulse/internal/daemon"
	"github.com/admybrand/adpulse/internal/notify"
)

const (
	requestTimeout = 5 * time.Second
	maxBodySize    = 4 << 20 // 4 MB
)

var (
	// ErrNotFound indicates the daemon has no such resource.
	ErrNotFound = errors.New("apiclient: not found")
	// ErrBadRequest indicates the daemon rejected the query parameters.
	ErrBadRequest = errors.New("apiclient: bad request")
)

// Client calls one daemon instance.
type Client struct {
	base string
	http *http.Client
}

// Notifications is the body of GET /v1/notifications.
type Notifications struct {
	Unread int                   `json:"unread"`
	Items  []notify.Notification `json:"items"`
}

// New creates a client for addr, either host:port or a full http URL.
func New(addr string) *Client {
	addr = strings.TrimRight(strings.TrimSpace(addr), "/")
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return &Client{base: addr, http: &http.Client{}}
}

// BaseURL returns the daemon root URL.
func (c *Client) BaseURL() string { return c.base }

// Status returns the daemon runtime status.
func (c *Client) Status(ctx context.Context) (daemon.Status, error) {
	var st daemon.Status
	err := c.getJSON(ctx, "/v1/status", nil, &st)
	return st, err
}

// Revenue returns the series for a preset name, or for from/to when
// preset is empty.
func (c *Client) Revenue(ctx context.Context, preset string, from, to time.Time) (daemon.RevenueResponse, error) {
	q := url.Values{}
	if preset != "" {
		q.Set("range", preset)
	} else if !from.IsZero() && !to.IsZero() {
		q.Set("from", from.Format(time.DateOnly))
		q.Set("to", to.Format(time.DateOnly))
	}
	var out daemon.RevenueResponse
	err := c.getJSON(ctx, "/v1/revenue", q, &out)
	return out, err
}

// Events returns the buffered events newer than after.
func (c *Client) Events(ctx context.Context, after int64) ([]daemon.Event, error) {
	q := url.Values{}
	if after > 0 {
		q.Set("after", strconv.FormatInt(after, 10))
	}
	var out []daemon.Event
	err := c.getJSON(ctx, "/v1/events", q, &out)
	return out, err
}

// Notifications lists the daemon's notifications, newest first.
func (c *Client) Notifications(ctx context.Context) (Notifications, error) {
	var out Notifications
	err := c.getJSON(ctx, "/v1/notifications", nil, &out)
	return out, err
}

// MarkAllRead marks every notification read.
func (c *Client) MarkAllRead(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/v1/notifications/read-all", nil)
	return err
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, v any) error {
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("apiclient: parsing %s: %w", path, err)
	}
	return nil
}

// do performs a request and returns the response body.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	//nolint:gosec // base URL is the configured local daemon
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apiclient: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("apiclient: reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", ErrBadRequest, errorMessage(data))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("apiclient: unexpected status %d", resp.StatusCode)
	}
	return data, nil
}

// errorMessage extracts {"error": "..."} from a daemon error body.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}
