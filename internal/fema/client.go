package fema

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/huracan-ai/huracan/internal/config"
	"github.com/huracan-ai/huracan/internal/domain"
)

// Feed defines the interface for the public disaster-declarations feed
type Feed interface {
	// RecentDeclarations returns the newest declarations matching the
	// configured incident type and recency cutoff, optionally narrowed to a
	// state. Newest first, at most the configured top count.
	RecentDeclarations(ctx context.Context, state string) ([]domain.Disaster, error)
}

// Client implements Feed against the FEMA OpenFEMA v1 API
type Client struct {
	baseURL      string
	incidentType string
	since        string
	top          int
	client       *http.Client
}

// NewClient creates a new disaster-feed client
func NewClient(cfg config.FemaConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	top := cfg.Top
	if top <= 0 {
		top = 5
	}
	return &Client{
		baseURL:      cfg.BaseURL,
		incidentType: cfg.IncidentType,
		since:        cfg.Since,
		top:          top,
		client:       &http.Client{Timeout: timeout},
	}
}

type feedResponse struct {
	DisasterDeclarationsSummaries []struct {
		DeclarationTitle    string `json:"declarationTitle"`
		State               string `json:"state"`
		DesignatedArea      string `json:"designatedArea"`
		DeclarationDate     string `json:"declarationDate"`
		IncidentType        string `json:"incidentType"`
		DisasterNumber      int    `json:"disasterNumber"`
		FYDeclared          int    `json:"fyDeclared"`
	} `json:"DisasterDeclarationsSummaries"`
}

// RecentDeclarations queries the declarations feed. The feed orders by
// declaration date descending and caps the result server-side.
func (c *Client) RecentDeclarations(ctx context.Context, state string) ([]domain.Disaster, error) {
	filter := fmt.Sprintf("incidentType eq '%s' and declarationDate gt '%s'", c.incidentType, c.since)
	if state != "" {
		filter += fmt.Sprintf(" and state eq '%s'", state)
	}

	endpoint := fmt.Sprintf("%s/DisasterDeclarationsSummaries?$filter=%s&$top=%d&$orderby=%s",
		c.baseURL,
		url.QueryEscape(filter),
		c.top,
		url.QueryEscape("declarationDate desc"),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("disaster feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("disaster feed returned status %d", resp.StatusCode)
	}

	var raw feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	disasters := make([]domain.Disaster, 0, len(raw.DisasterDeclarationsSummaries))
	for _, d := range raw.DisasterDeclarationsSummaries {
		disasters = append(disasters, domain.Disaster{
			Title:           d.DeclarationTitle,
			State:           d.State,
			County:          d.DesignatedArea,
			DeclarationDate: d.DeclarationDate,
			IncidentType:    d.IncidentType,
			DisasterNumber:  d.DisasterNumber,
			FYDeclared:      d.FYDeclared,
		})
	}

	return disasters, nil
}
