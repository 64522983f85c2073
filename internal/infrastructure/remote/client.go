// Package remote adapts the account backend endpoints the synchronizer
// prefetches from: conversation history and the advisory library.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/agrovoice/agrovoice-go/internal/domain"
	"github.com/agrovoice/agrovoice-go/internal/ports"
)

// ChatArchiveClient fetches recent conversation messages.
type ChatArchiveClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewChatArchiveClient builds the chat history collaborator.
func NewChatArchiveClient(endpoint string, client *http.Client) *ChatArchiveClient {
	if client == nil {
		client = &http.Client{Timeout: domain.DefaultFetchTimeout}
	}
	return &ChatArchiveClient{endpoint: endpoint, httpClient: client}
}

// Recent implements ports.ChatArchive.
func (c *ChatArchiveClient) Recent(ctx context.Context, limit int) ([]domain.ChatMessage, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("chat sync endpoint not configured")
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	var messages []domain.ChatMessage
	if err := getJSON(ctx, c.httpClient, c.endpoint+"?"+q.Encode(), &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// LibraryHTTPClient fetches advisory library items.
type LibraryHTTPClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewLibraryClient builds the library collaborator.
func NewLibraryClient(endpoint string, client *http.Client) *LibraryHTTPClient {
	if client == nil {
		client = &http.Client{Timeout: domain.DefaultFetchTimeout}
	}
	return &LibraryHTTPClient{endpoint: endpoint, httpClient: client}
}

// List implements ports.LibraryClient.
func (c *LibraryHTTPClient) List(ctx context.Context) ([]domain.LibraryItem, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("library endpoint not configured")
	}
	var items []domain.LibraryItem
	if err := getJSON(ctx, c.httpClient, c.endpoint, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func getJSON(ctx context.Context, client *http.Client, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("remote: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var _ ports.ChatArchive = (*ChatArchiveClient)(nil)
var _ ports.LibraryClient = (*LibraryHTTPClient)(nil)
