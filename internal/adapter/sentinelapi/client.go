// Package sentinelapi is the HTTP client for the SENTINEL backend that
// proxies NASA DONKI feeds.
package sentinelapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/sentinel-dashboard/internal/domain"
)

// maxBodyBytes bounds a single response body.
const maxBodyBytes = 64 << 20

// Client fetches event datasets and system status from the backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an API client for baseURL, e.g. "http://localhost:5000".
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchEvents loads the flare, CME and storm feeds for the past days.
func (c *Client) FetchEvents(ctx context.Context, days int) (domain.Dataset, error) {
	params := url.Values{"days": {strconv.Itoa(days)}}
	body, err := c.get(ctx, "/api/events?"+params.Encode())
	if err != nil {
		return domain.Dataset{}, err
	}
	d, err := domain.DecodeDataset(body)
	if err != nil {
		return domain.Dataset{}, err
	}
	c.logger.Debug("events fetched",
		"days", days,
		"flares", len(d.Flares),
		"cmes", len(d.CMEs),
		"storms", len(d.Storms),
	)
	return d, nil
}

// FetchStatus loads the backend's self-reported status.
func (c *Client) FetchStatus(ctx context.Context) (domain.SystemStatus, error) {
	body, err := c.get(ctx, "/api/status")
	if err != nil {
		return domain.SystemStatus{}, err
	}
	return domain.DecodeStatus(body)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", domain.ErrNetwork, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: GET %s: status %d: %s", domain.ErrNetwork, path, resp.StatusCode, snippet)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrNetwork, path, err)
	}
	return body, nil
}
