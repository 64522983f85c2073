package domain

import "context"

// Confidence grades how certain a resolved advisory is.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Advisory is the result of one cascade resolution. It is transient: callers
// render or speak it, and only its recommendation text reaches the cache.
type Advisory struct {
	Condition      string
	Confidence     Confidence
	Recommendation string
	Source         AdvisorySource
	FromCache      bool
}

// AdvisorySource names the cascade tier that produced the advisory.
type AdvisorySource string

const (
	SourceWeather  AdvisorySource = "weather"
	SourceConcept  AdvisorySource = "concept"
	SourceCrop     AdvisorySource = "crop"
	SourcePattern  AdvisorySource = "pattern"
	SourceAI       AdvisorySource = "ai"
	SourceCache    AdvisorySource = "cache"
	SourceFallback AdvisorySource = "fallback"
	SourceNoInput  AdvisorySource = "no_input"
)

// AdvisoryRequest captures one user query entering the cascade.
type AdvisoryRequest struct {
	Context context.Context
	Query   string
	Locale  Locale
	Weather *WeatherContext
	History []ChatTurn
}

// ChatTurn is one prior conversation exchange passed to the AI tier.
type ChatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// WeatherContext carries live conditions used by the weather-intent tier
// and forwarded to the AI tier.
type WeatherContext struct {
	TemperatureC    float64 `json:"temperature_c"`
	HumidityPercent int     `json:"humidity_percent"`
	WeatherCode     int     `json:"weather_code"`
}

// Label is a single vision-classifier detection used to score pattern rules.
type Label struct {
	Name  string  `json:"label"`
	Score float64 `json:"score"`
}
