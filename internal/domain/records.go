package domain

import "time"

// MarketRecord mirrors one commodity price row from the market collaborator,
// plus the local id and synced flag the synchronizer stamps on it.
type MarketRecord struct {
	ID              string    `json:"id"`
	Commodity       string    `json:"commodity"`
	Market          string    `json:"market"`
	State           string    `json:"state"`
	PricePerQuintal float64   `json:"price_per_quintal"`
	Unit            string    `json:"unit"`
	Timestamp       time.Time `json:"timestamp"`
	Synced          bool      `json:"synced"`
}

// ChatMessage is one stored conversation message.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Locale    Locale    `json:"locale"`
	Timestamp time.Time `json:"timestamp"`
	Synced    bool      `json:"synced"`
}

// LibraryItem is one advisory library article prefetched for offline use.
type LibraryItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	Locale    Locale    `json:"locale"`
	Timestamp time.Time `json:"timestamp"`
	Synced    bool      `json:"synced"`
}

// WeatherSnapshot is a cached currentConditions result.
type WeatherSnapshot struct {
	ID              string    `json:"id"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	TemperatureC    float64   `json:"temperature_c"`
	HumidityPercent int       `json:"humidity_percent"`
	WeatherCode     int       `json:"weather_code"`
	Timestamp       time.Time `json:"timestamp"`
}
