// Package vision adapts the plant-disease classifier backend.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/agrovoice/agrovoice-go/internal/domain"
	"github.com/agrovoice/agrovoice-go/internal/ports"
)

// Client posts a base64 image to the detection backend's analyze endpoint
// and returns labels with confidence scores.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient builds the vision collaborator.
func NewClient(endpoint string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: domain.DefaultChatTimeout}
	}
	return &Client{endpoint: endpoint, httpClient: client}
}

// Classify implements ports.VisionClassifier.
func (c *Client) Classify(ctx context.Context, imageBase64 string) ([]domain.Label, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("vision endpoint not configured")
	}
	body, err := json.Marshal(map[string]string{"image": imageBase64})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("vision: %s", resp.Status)
	}

	var parsed struct {
		Analysis struct {
			Detections []struct {
				Label      string  `json:"label"`
				Confidence float64 `json:"confidence"`
			} `json:"detections"`
		} `json:"analysis"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	labels := make([]domain.Label, 0, len(parsed.Analysis.Detections))
	for _, d := range parsed.Analysis.Detections {
		labels = append(labels, domain.Label{Name: d.Label, Score: d.Confidence})
	}
	return labels, nil
}

var _ ports.VisionClassifier = (*Client)(nil)
