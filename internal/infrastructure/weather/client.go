// Package weather adapts an Open-Meteo style current-conditions API.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/agrovoice/agrovoice-go/internal/domain"
	"github.com/agrovoice/agrovoice-go/internal/ports"
)

// Client fetches current conditions for a coordinate pair.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient builds the weather collaborator.
func NewClient(endpoint string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: domain.DefaultFetchTimeout}
	}
	return &Client{endpoint: endpoint, httpClient: client}
}

// CurrentConditions implements ports.WeatherProvider.
func (c *Client) CurrentConditions(ctx context.Context, lat, lon float64) (domain.WeatherContext, error) {
	if c.endpoint == "" {
		return domain.WeatherContext{}, fmt.Errorf("weather endpoint not configured")
	}
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("current", "temperature_2m,relative_humidity_2m,weather_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return domain.WeatherContext{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherContext{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return domain.WeatherContext{}, fmt.Errorf("weather: %s", resp.Status)
	}

	var parsed struct {
		Current struct {
			Temperature float64 `json:"temperature_2m"`
			Humidity    int     `json:"relative_humidity_2m"`
			WeatherCode int     `json:"weather_code"`
		} `json:"current"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.WeatherContext{}, err
	}
	return domain.WeatherContext{
		TemperatureC:    parsed.Current.Temperature,
		HumidityPercent: parsed.Current.Humidity,
		WeatherCode:     parsed.Current.WeatherCode,
	}, nil
}

var _ ports.WeatherProvider = (*Client)(nil)
