package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/huracan-ai/huracan/internal/config"
)

// Location is the coarse region a free-form address resolves to
type Location struct {
	State string `json:"state"`
}

// Geocoder defines the interface for the address lookup backend. A nil
// Location with nil error means the address did not resolve; that outcome
// only suppresses downstream enrichment.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Location, error)
}

// Client implements Geocoder against the Nominatim search API. One shot
// per call: no retries, no caching.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewClient creates a new Nominatim client
func NewClient(cfg config.GeocodeConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

type searchResult struct {
	Address struct {
		State string `json:"state"`
	} `json:"address"`
}

// Geocode resolves a free-form address to its state. Returns nil on a
// non-success response, empty result set, or missing state field.
func (c *Client) Geocode(ctx context.Context, address string) (*Location, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=1&addressdetails=1",
		c.baseURL, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(results) == 0 || results[0].Address.State == "" {
		return nil, nil
	}

	return &Location{State: results[0].Address.State}, nil
}
