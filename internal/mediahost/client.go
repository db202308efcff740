// Package mediahost is a thin HTTP client for the host media server,
// implementing the catalog, user-directory, and watch-history ports the
// notification core depends on. It contains no notification logic.
package mediahost

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finchmedia/notifier/internal/media"
)

const defaultTimeout = 30 * time.Second

// Client talks to the host media server's REST API. It satisfies
// media.Catalog, media.Directory, and media.History.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

// New creates a host catalog client.
func New(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		logger:     logger,
	}
}

// ItemByID resolves one catalog item. A 404 from the host means the item
// was removed again and is reported as nil, not an error.
func (c *Client) ItemByID(ctx context.Context, id uuid.UUID) (*media.Item, error) {
	var item media.Item
	found, err := c.get(ctx, "/items/"+id.String(), nil, &item)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &item, nil
}

// EpisodesOf returns every episode under a series.
func (c *Client) EpisodesOf(ctx context.Context, seriesID uuid.UUID) ([]media.Item, error) {
	var episodes []media.Item
	if _, err := c.get(ctx, "/series/"+seriesID.String()+"/episodes", nil, &episodes); err != nil {
		return nil, err
	}
	return episodes, nil
}

// ItemsByKind returns all items of the given kinds across the library.
func (c *Client) ItemsByKind(ctx context.Context, kinds ...media.Kind) ([]media.Item, error) {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	params := url.Values{"kinds": {strings.Join(names, ",")}}

	var items []media.Item
	if _, err := c.get(ctx, "/items", params, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListUsers returns the host's user directory.
func (c *Client) ListUsers(ctx context.Context) ([]media.User, error) {
	var users []media.User
	if _, err := c.get(ctx, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UserItemData returns one user's watch state for one item, or nil when the
// host has no record.
func (c *Client) UserItemData(ctx context.Context, userID, itemID uuid.UUID) (*media.UserItemData, error) {
	var data media.UserItemData
	path := fmt.Sprintf("/users/%s/items/%s/data", userID, itemID)
	found, err := c.get(ctx, path, nil, &data)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &data, nil
}

// get performs a GET request and decodes the JSON body into out. Returns
// found=false on a 404 without error, since absent records are a normal
// outcome on every lookup this client performs.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) (bool, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("http request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("catalog %s returned %d: %s", path, resp.StatusCode, truncate(body, 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return true, nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
