package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/agrovoice/agrovoice-go/internal/domain"
	"github.com/agrovoice/agrovoice-go/internal/ports"
)

// voiceMap picks a neural voice per locale, matching the speech backend's
// defaults.
var voiceMap = map[domain.Locale]string{
	domain.LocaleEnglish: "en-US-ChristopherNeural",
	domain.LocaleHindi:   "hi-IN-MadhurNeural",
}

// SpeechClient posts answer text to the speech backend and returns base64
// MP3 audio.
type SpeechClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewSpeechClient builds the TTS collaborator. An empty endpoint yields a
// client whose calls always fail, which the cascade tolerates.
func NewSpeechClient(endpoint string, client *http.Client) *SpeechClient {
	if client == nil {
		client = &http.Client{Timeout: domain.DefaultSpeechTimeout}
	}
	return &SpeechClient{endpoint: endpoint, httpClient: client}
}

// Synthesize implements ports.SpeechSynthesizer.
func (c *SpeechClient) Synthesize(ctx context.Context, text string, locale domain.Locale) (string, error) {
	if c.endpoint == "" {
		return "", fmt.Errorf("speech endpoint not configured")
	}
	voice, ok := voiceMap[locale]
	if !ok {
		voice = voiceMap[domain.DefaultLocale]
	}
	body, err := json.Marshal(map[string]string{
		"text":     text,
		"language": string(locale),
		"voice":    voice,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("speech: %s", resp.Status)
	}

	var parsed struct {
		Audio string `json:"audio"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.Audio == "" {
		return "", fmt.Errorf("speech: empty audio")
	}
	return parsed.Audio, nil
}

var _ ports.SpeechSynthesizer = (*SpeechClient)(nil)
