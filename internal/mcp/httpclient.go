package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/autosave"
)

// HTTPClient implements DraftSource by calling the GYMovoo REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// drafts live on the server (reached over Tailscale or the LAN).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DraftSource.
var _ DraftSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. apiKey
// is sent as X-API-Key when non-empty.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// Recover fetches the newest draft from the server. A 204 means there is
// nothing to recover.
func (c *HTTPClient) Recover(ctx context.Context) (*autosave.Recovered, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/api/v1/drafts/recover")
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusNoContent:
		return nil, nil
	case http.StatusOK:
	default:
		return nil, fmt.Errorf("httpclient: /api/v1/drafts/recover returned %d: %s", status, body)
	}

	var rec autosave.Recovered
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("httpclient: decode draft: %w", err)
	}
	return &rec, nil
}

// Discard deletes a draft on the server.
func (c *HTTPClient) Discard(ctx context.Context, workoutID string) error {
	path := "/api/v1/drafts/" + url.PathEscape(workoutID)
	status, body, err := c.do(ctx, http.MethodDelete, path)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent && status != http.StatusOK {
		return fmt.Errorf("httpclient: %s returned %d: %s", path, status, body)
	}
	return nil
}
