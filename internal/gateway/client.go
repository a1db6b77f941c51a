// Package gateway fetches the snapshots the refresh channels keep current:
// node inventory, log tail, debug state and the agent configuration.
package gateway

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"git.home.luguber.info/inful/refreshd/internal/config"
	ferrors "git.home.luguber.info/inful/refreshd/internal/foundation/errors"
)

// Resource names a gateway API collection.
type Resource string

const (
	ResourceNodes  Resource = "nodes"
	ResourceLogs   Resource = "logs"
	ResourceDebug  Resource = "debug"
	ResourceConfig Resource = "config"
)

// maxBodyBytes caps a single snapshot response.
const maxBodyBytes = 8 << 20

// Snapshot is the latest payload fetched for one resource.
type Snapshot struct {
	Resource  Resource        `json:"resource"`
	FetchedAt time.Time       `json:"fetched_at"`
	Cursor    string          `json:"cursor,omitempty"`
	Body      json.RawMessage `json:"body"`
}

// Client talks to the gateway HTTP API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	now     func() time.Time
}

// NewClient builds a client from cfg. The token is expanded from the
// environment here, not stored expanded in the config snapshot.
func NewClient(cfg config.GatewayConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = config.DefaultGatewayTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:   config.Expand(cfg.Token),
		http:    httpClient,
		now:     time.Now,
	}
}

// Configured reports whether a gateway base URL is set.
func (c *Client) Configured() bool { return c != nil && c.baseURL != "" }

// Fetch performs GET {base}/api/{resource}. A non-empty cursor is sent as the
// cursor query parameter and the response's cursor field is carried into the snapshot.
func (c *Client) Fetch(ctx context.Context, resource Resource, cursor string) (*Snapshot, error) {
	if !c.Configured() {
		return nil, ferrors.ConfigError("gateway.base_url is not set").Build()
	}
	u := c.baseURL + "/api/" + url.PathEscape(string(resource))
	if cursor != "" {
		u += "?" + url.Values{"cursor": []string{cursor}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid gateway url").
			WithContext("url", u).
			Build()
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNetwork, "gateway request failed").
			NextTick().
			WithContext("resource", string(resource)).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to read gateway response").
			NextTick().
			WithContext("resource", string(resource)).
			Build()
	}
	if resp.StatusCode != http.StatusOK {
		return nil, ferrors.ProviderError("gateway returned unexpected status").
			WithContext("resource", string(resource)).
			WithContext("status", resp.StatusCode).
			Build()
	}
	if !json.Valid(body) {
		return nil, ferrors.ProviderError("gateway returned invalid JSON").
			WithContext("resource", string(resource)).
			Build()
	}

	snap := &Snapshot{Resource: resource, FetchedAt: c.now(), Body: json.RawMessage(body)}
	var meta struct {
		Cursor string `json:"cursor"`
	}
	if json.Unmarshal(body, &meta) == nil {
		snap.Cursor = meta.Cursor
	}
	return snap, nil
}
