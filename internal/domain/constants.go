package domain

import "time"

// File permission constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Cache constants
const (
	// ResponseTTL is how long cached AI responses and audio stay valid.
	ResponseTTL = 7 * 24 * time.Hour
	// AudioCacheCapacity bounds the audio table; payloads are large.
	AudioCacheCapacity = 20
	// AudioCacheEvictTarget is the size the audio table is shrunk to when
	// capacity is reached, so a burst of inserts does not evict every time.
	AudioCacheEvictTarget = 15
	// MinAudioBytes rejects truncated or empty synthesis payloads.
	MinAudioBytes = 100
	// MaxAudioBytes rejects runaway payloads (base64 length).
	MaxAudioBytes = 5 * 1024 * 1024
	// AudioKeyPrefixLen is how many leading response characters feed the
	// audio cache key.
	AudioKeyPrefixLen = 50
	// WeatherSnapshotTTL is how long a stored conditions snapshot may stand
	// in for a failed live fetch.
	WeatherSnapshotTTL = 6 * time.Hour
)

// Timeout constants
const (
	// DefaultChatTimeout bounds one AI chat call.
	DefaultChatTimeout = 30 * time.Second
	// DefaultSyncTaskTimeout bounds one synchronizer fan-out task.
	DefaultSyncTaskTimeout = 10 * time.Second
	// DefaultProbeTimeout bounds the connectivity probe.
	DefaultProbeTimeout = 3 * time.Second
	// DefaultSpeechTimeout bounds one TTS call.
	DefaultSpeechTimeout = 15 * time.Second
	// DefaultFetchTimeout bounds weather and market lookups.
	DefaultFetchTimeout = 8 * time.Second
)

// History constants
const (
	// MaxHistoryTurns is how many trailing conversation turns reach the AI tier.
	MaxHistoryTurns = 6
	// DefaultSyncChatLimit is how many remote chat messages one sync pulls.
	DefaultSyncChatLimit = 50
	// DefaultMarketLimit is the page size for market prefetches.
	DefaultMarketLimit = 10
)
