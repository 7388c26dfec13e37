// Package psgc provides a client for the external Philippine Standard
// Geographic Code lookup service.
package psgc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// ErrLookupFailed wraps transport and server failures. Lookups are read-only
// and side-effect free, so callers may retry.
var ErrLookupFailed = errors.New("psgc lookup failed")

// Place is one geographic unit: a province, a city or a barangay.
type Place struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Client encapsulates HTTP access to the lookup service.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
}

// NewClient creates a lookup client against baseURL. Requests are aborted
// after timeout; transient failures are retried twice before surfacing.
func NewClient(baseURL string, timeout time.Duration) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = time.Second
	rc.HTTPClient.Timeout = timeout
	rc.Logger = nil

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: rc,
	}
}

// Provinces lists the provinces the shop delivers to.
func (c *Client) Provinces(ctx context.Context) ([]Place, error) {
	return c.get(ctx, "/provinces")
}

// Cities lists the cities of a province.
func (c *Client) Cities(ctx context.Context, provinceCode string) ([]Place, error) {
	return c.get(ctx, fmt.Sprintf("/provinces/%s/cities", provinceCode))
}

// Barangays lists the barangays of a city.
func (c *Client) Barangays(ctx context.Context, cityCode string) ([]Place, error) {
	return c.get(ctx, fmt.Sprintf("/cities/%s/barangays", cityCode))
}

func (c *Client) get(ctx context.Context, path string) ([]Place, error) {
	if c == nil || c.baseURL == "" {
		return nil, fmt.Errorf("%w: client not configured", ErrLookupFailed)
	}

	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrLookupFailed, resp.StatusCode)
	}

	var places []Place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return places, nil
}
