// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The advisory core depends only on these abstractions; concrete adapters in
// the infrastructure layer bind them to SQLite, HTTP collaborators, or
// in-memory fakes for tests. Every collaborator call is fallible and the
// cascade treats any error as "tier unavailable", so none of these
// interfaces leak network failures to the end user.
package ports

import (
	"context"

	"github.com/agrovoice/agrovoice-go/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.agrovoice/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ConnectivityDetector reports whether the device should behave as offline.
// Sampled once per resolution; implementations must not cache across calls.
type ConnectivityDetector interface {
	Offline(context.Context) bool
}

// ChatProvider is the language-model collaborator (cascade tier 5).
type ChatProvider interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResult, error)
}

// ChatRequest carries the normalized query plus optional context to the model.
type ChatRequest struct {
	Query   string
	Locale  domain.Locale
	Weather *domain.WeatherContext
	History []domain.ChatTurn
}

// ChatResult is a successful model reply.
type ChatResult struct {
	Text    string
	ModelID string
}

// SpeechSynthesizer converts answer text to audio for voice playback.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string, locale domain.Locale) (string, error)
}

// VisionClassifier labels a plant photo for the pattern tier.
type VisionClassifier interface {
	Classify(ctx context.Context, imageBase64 string) ([]domain.Label, error)
}

// WeatherProvider fetches live conditions for the weather tier.
type WeatherProvider interface {
	CurrentConditions(ctx context.Context, lat, lon float64) (domain.WeatherContext, error)
}

// MarketClient lists commodity prices from the market collaborator.
type MarketClient interface {
	List(ctx context.Context, commodity string, limit, offset int) ([]domain.MarketRecord, error)
}

// ChatArchive fetches remote conversation history for offline replay.
type ChatArchive interface {
	Recent(ctx context.Context, limit int) ([]domain.ChatMessage, error)
}

// LibraryClient lists advisory library items for offline prefetch.
type LibraryClient interface {
	List(ctx context.Context) ([]domain.LibraryItem, error)
}

// KeyValueStore is the multi-table local store. Tables are independent;
// Put is an upsert keyed by the record id and table creation is lazy and
// idempotent.
type KeyValueStore interface {
	Get(ctx context.Context, table, key string) ([]byte, bool, error)
	Put(ctx context.Context, table, key string, value []byte) error
	GetAll(ctx context.Context, table string) (map[string][]byte, error)
	Delete(ctx context.Context, table, key string) error
	Clear(ctx context.Context, table string) error
	Count(ctx context.Context, table string) (int, error)
}

// Store table names. Each table is independently useful offline.
const (
	TableMarketData   = "market_data"
	TableChatHistory  = "chat_history"
	TableLibraryItems = "library_items"
	TableAICache      = "ai_cache"
	TableWeatherCache = "weather_cache"
)

// CacheService is the response/audio cache consumed by the cascade.
// All writes are best-effort and never block or fail the resolution path.
type CacheService interface {
	CacheAIResponse(ctx context.Context, query, response string)
	CachedAIResponse(ctx context.Context, query string) (string, bool)
	CacheAudio(ctx context.Context, text, audioBase64 string, locale domain.Locale) error
	CachedAudio(ctx context.Context, text string) (string, bool)
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (domain.CacheStats, error)
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
