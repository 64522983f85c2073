// Package market adapts the commodity price resource API.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/agrovoice/agrovoice-go/internal/domain"
	"github.com/agrovoice/agrovoice-go/internal/ports"
)

// Client lists mandi prices from a data.gov.in style resource endpoint.
type Client struct {
	endpoint   string
	apiKeyEnv  string
	httpClient *http.Client
}

// NewClient builds the market collaborator. apiKeyEnv names the env var
// holding the resource API key.
func NewClient(endpoint, apiKeyEnv string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: domain.DefaultFetchTimeout}
	}
	return &Client{endpoint: endpoint, apiKeyEnv: apiKeyEnv, httpClient: client}
}

// List implements ports.MarketClient.
func (c *Client) List(ctx context.Context, commodity string, limit, offset int) ([]domain.MarketRecord, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("market endpoint not configured")
	}
	q := url.Values{}
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	if commodity != "" {
		q.Set("filters[commodity]", commodity)
	}
	if c.apiKeyEnv != "" {
		if key := os.Getenv(c.apiKeyEnv); key != "" {
			q.Set("api-key", key)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("market: %s", resp.Status)
	}

	var parsed struct {
		Records []struct {
			Commodity  string `json:"commodity"`
			Market     string `json:"market"`
			State      string `json:"state"`
			ModalPrice string `json:"modal_price"`
		} `json:"records"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	now := time.Now()
	records := make([]domain.MarketRecord, 0, len(parsed.Records))
	for _, r := range parsed.Records {
		price, err := strconv.ParseFloat(r.ModalPrice, 64)
		if err != nil {
			// Skip unparseable rows; prefetch is best-effort.
			continue
		}
		records = append(records, domain.MarketRecord{
			ID:              fmt.Sprintf("%s|%s|%s", r.Commodity, r.State, r.Market),
			Commodity:       r.Commodity,
			Market:          r.Market,
			State:           r.State,
			PricePerQuintal: price,
			Unit:            "quintal",
			Timestamp:       now,
		})
	}
	return records, nil
}

var _ ports.MarketClient = (*Client)(nil)
