// Package ai holds the language-model and speech collaborator adapters.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/agrovoice/agrovoice-go/internal/domain"
	"github.com/agrovoice/agrovoice-go/internal/ports"
)

// ChatClient calls an OpenAI-compatible chat-completions endpoint.
type ChatClient struct {
	model      domain.ModelDefinition
	httpClient *http.Client
}

// NewChatClient builds the chat collaborator for a configured model.
func NewChatClient(model domain.ModelDefinition, client *http.Client) *ChatClient {
	if client == nil {
		client = &http.Client{Timeout: domain.DefaultChatTimeout}
	}
	return &ChatClient{model: model, httpClient: client}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens,omitempty"`
	Messages  []chatMessage `json:"messages"`
}

// Chat implements ports.ChatProvider. Every failure surfaces as an error so
// the cascade can treat the tier as unavailable.
func (c *ChatClient) Chat(ctx context.Context, req ports.ChatRequest) (*ports.ChatResult, error) {
	apiKey := resolveAuth(c.model.AuthEnvVar, "OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key: set %s", valueOrDefault(c.model.AuthEnvVar, "OPENAI_API_KEY"))
	}

	payload := chatCompletionRequest{
		Model:     valueOrDefault(c.model.ModelID, "gpt-4o-mini"),
		MaxTokens: valueOrDefaultInt(c.model.MaxTokens, 512),
		Messages:  buildMessages(req),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := valueOrDefault(c.model.Endpoint, "https://api.openai.com/v1/chat/completions")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("chat: %s", resp.Status)
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Model string `json:"model"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("chat: empty response")
	}
	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return nil, fmt.Errorf("chat: empty response")
	}
	return &ports.ChatResult{Text: text, ModelID: valueOrDefault(parsed.Model, c.model.ModelID)}, nil
}

func buildMessages(req ports.ChatRequest) []chatMessage {
	system := []string{
		"You are an agricultural advisor for smallholder farmers.",
		"Answer in 2-4 short sentences with concrete, actionable steps.",
	}
	if req.Locale == domain.LocaleHindi {
		system = append(system, "Reply in simple Hindi written in Latin script.")
	} else {
		system = append(system, "Reply in simple English.")
	}
	if req.Weather != nil {
		system = append(system, fmt.Sprintf(
			"Current field conditions: %.0f°C, %d%% humidity, weather code %d.",
			req.Weather.TemperatureC, req.Weather.HumidityPercent, req.Weather.WeatherCode))
	}

	messages := []chatMessage{{Role: "system", Content: strings.Join(system, " ")}}
	for _, turn := range req.History {
		role := strings.ToLower(turn.Role)
		if role != "assistant" {
			role = "user"
		}
		messages = append(messages, chatMessage{Role: role, Content: turn.Text})
	}
	return append(messages, chatMessage{Role: "user", Content: req.Query})
}

func resolveAuth(primary, fallback string) string {
	if primary != "" {
		if v := os.Getenv(primary); v != "" {
			return v
		}
	}
	return os.Getenv(fallback)
}

func valueOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func valueOrDefaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}

var _ ports.ChatProvider = (*ChatClient)(nil)
