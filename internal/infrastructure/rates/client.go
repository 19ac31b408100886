// Package rates fetches current exchange rates from an external HTTP API.
package rates

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client exposes the rate lookup used by the settings sync.
type Client interface {
	Fetch(ctx context.Context) (map[string]float64, error)
}

// APIClient is a resty-backed implementation of Client. The endpoint is
// expected to return {"rates": {"USD": 48.7, ...}} quoted as EGP per unit.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a rates client for the configured endpoint URL.
func NewClient(apiURL string) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(apiURL).
		SetHeader("Accept", "application/json").
		SetTimeout(10 * time.Second)

	return &APIClient{httpClient: restyClient}
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// Fetch returns the current rate table.
func (c *APIClient) Fetch(ctx context.Context) (map[string]float64, error) {
	var out ratesResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&out).
		Get("")
	if err != nil {
		return nil, fmt.Errorf("fetch exchange rates: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch exchange rates: status %d", resp.StatusCode())
	}
	if len(out.Rates) == 0 {
		return nil, fmt.Errorf("fetch exchange rates: empty payload")
	}
	return out.Rates, nil
}
