package domain

import "time"

// CacheEntry stores one cached AI response keyed by the normalized-query
// hash. Entries are created on first successful AI resolution and never
// mutated afterwards; expiry is handled at read time.
type CacheEntry struct {
	Key       string    `json:"key"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// AudioCacheEntry stores synthesized speech for a response text. Audio
// payloads are large relative to the storage quota, so this table is
// additionally capacity-bounded.
type AudioCacheEntry struct {
	Key         string    `json:"key"`
	AudioBase64 string    `json:"audio_base64"`
	Language    Locale    `json:"language"`
	CreatedAt   time.Time `json:"created_at"`
}

// CacheStats summarizes cache occupancy across both tables.
type CacheStats struct {
	Count     int
	TotalSize int64
}
