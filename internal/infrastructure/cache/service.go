// Package cache implements the response/audio cache on top of the local
// key-value store: TTL expiry for both tables, capacity-bounded
// insertion-order eviction for audio, and best-effort writes that never
// block the resolution path.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/agrovoice/agrovoice-go/internal/domain"
	"github.com/agrovoice/agrovoice-go/internal/ports"
)

// TableAudioCache holds synthesized speech; kept separate from ai_cache so
// capacity eviction never touches text responses.
const TableAudioCache = "audio_cache"

// Service is the concrete ports.CacheService.
type Service struct {
	store       ports.KeyValueStore
	log         ports.Logger
	ttl         time.Duration
	capacity    int
	evictTarget int
	minAudio    int
	maxAudio    int
	now         func() time.Time
}

// NewService builds a cache with the default TTL and audio capacity.
func NewService(store ports.KeyValueStore, log ports.Logger) *Service {
	return NewServiceWithLimits(store, log, domain.ResponseTTL, domain.AudioCacheCapacity)
}

// NewServiceWithLimits overrides the TTL and audio capacity, keeping the
// default eviction margin below the given capacity.
func NewServiceWithLimits(store ports.KeyValueStore, log ports.Logger, ttl time.Duration, capacity int) *Service {
	if ttl <= 0 {
		ttl = domain.ResponseTTL
	}
	if capacity <= 0 {
		capacity = domain.AudioCacheCapacity
	}
	target := capacity - (domain.AudioCacheCapacity - domain.AudioCacheEvictTarget)
	if target < 0 {
		target = 0
	}
	return &Service{
		store:       store,
		log:         log,
		ttl:         ttl,
		capacity:    capacity,
		evictTarget: target,
		minAudio:    domain.MinAudioBytes,
		maxAudio:    domain.MaxAudioBytes,
		now:         time.Now,
	}
}

// CacheAIResponse upserts a resolved answer under the normalized-query key.
// Failures are logged and swallowed; caching is never load-bearing.
func (s *Service) CacheAIResponse(ctx context.Context, query, response string) {
	entry := domain.CacheEntry{
		Key:       QueryKey(query),
		Query:     NormalizeQuery(query),
		Response:  response,
		CreatedAt: s.now(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	s.putWithRecovery(ctx, ports.TableAICache, entry.Key, data)
}

// CachedAIResponse returns the cached answer for a semantically identical
// query. Expired entries read as absent but are left in place; cleanup
// happens opportunistically on audio inserts and quota recovery.
func (s *Service) CachedAIResponse(ctx context.Context, query string) (string, bool) {
	key := QueryKey(query)
	data, ok, err := s.store.Get(ctx, ports.TableAICache, key)
	if err != nil || !ok {
		return "", false
	}
	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Corrupt payloads read as absent and are dropped.
		_ = s.store.Delete(ctx, ports.TableAICache, key)
		return "", false
	}
	if s.expired(entry.CreatedAt) {
		return "", false
	}
	return entry.Response, true
}

// CacheAudio stores synthesized speech for a response text. Undersized and
// oversized payloads are rejected; the table is purged of expired entries
// and shrunk below capacity before the insert.
func (s *Service) CacheAudio(ctx context.Context, text, audioBase64 string, locale domain.Locale) error {
	if len(audioBase64) < s.minAudio {
		return fmt.Errorf("audio payload too small: %d bytes", len(audioBase64))
	}
	if len(audioBase64) > s.maxAudio {
		return fmt.Errorf("audio payload too large: %d bytes", len(audioBase64))
	}

	s.purgeExpired(ctx, TableAudioCache)
	if n, err := s.store.Count(ctx, TableAudioCache); err == nil && n >= s.capacity {
		s.evictOldest(ctx, TableAudioCache, s.evictTarget)
	}

	entry := domain.AudioCacheEntry{
		Key:         AudioKey(text, domain.AudioKeyPrefixLen),
		AudioBase64: audioBase64,
		Language:    locale,
		CreatedAt:   s.now(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	s.putWithRecovery(ctx, TableAudioCache, entry.Key, data)
	return nil
}

// CachedAudio returns stored speech for a response text, if fresh.
func (s *Service) CachedAudio(ctx context.Context, text string) (string, bool) {
	key := AudioKey(text, domain.AudioKeyPrefixLen)
	data, ok, err := s.store.Get(ctx, TableAudioCache, key)
	if err != nil || !ok {
		return "", false
	}
	var entry domain.AudioCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = s.store.Delete(ctx, TableAudioCache, key)
		return "", false
	}
	if s.expired(entry.CreatedAt) {
		return "", false
	}
	return entry.AudioBase64, true
}

// Clear empties both cache tables.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx, ports.TableAICache); err != nil {
		return err
	}
	return s.store.Clear(ctx, TableAudioCache)
}

// Stats reports entry count and payload bytes across both tables.
func (s *Service) Stats(ctx context.Context) (domain.CacheStats, error) {
	var stats domain.CacheStats
	for _, table := range []string{ports.TableAICache, TableAudioCache} {
		rows, err := s.store.GetAll(ctx, table)
		if err != nil {
			return domain.CacheStats{}, err
		}
		stats.Count += len(rows)
		for _, payload := range rows {
			stats.TotalSize += int64(len(payload))
		}
	}
	return stats, nil
}

func (s *Service) expired(createdAt time.Time) bool {
	return s.ttl > 0 && s.now().Sub(createdAt) > s.ttl
}

// putWithRecovery writes an entry, treating failure as quota exhaustion:
// drop roughly half of the table oldest-first and retry once, then give up
// silently.
func (s *Service) putWithRecovery(ctx context.Context, table, key string, data []byte) {
	if err := s.store.Put(ctx, table, key, data); err == nil {
		return
	}
	n, countErr := s.store.Count(ctx, table)
	if countErr == nil && n > 0 {
		s.evictOldest(ctx, table, n/2)
	}
	if err := s.store.Put(ctx, table, key, data); err != nil {
		if s.log != nil {
			s.log.Warn("cache write dropped", map[string]interface{}{
				"table": table,
				"key":   key,
				"error": err.Error(),
			})
		}
	}
}

type timestamped struct {
	Key       string
	CreatedAt time.Time
}

// entriesByAge lists table entries oldest-first. Unparseable rows are
// deleted on sight.
func (s *Service) entriesByAge(ctx context.Context, table string) []timestamped {
	rows, err := s.store.GetAll(ctx, table)
	if err != nil {
		return nil
	}
	var out []timestamped
	for key, payload := range rows {
		var probe struct {
			CreatedAt time.Time `json:"created_at"`
		}
		if err := json.Unmarshal(payload, &probe); err != nil {
			_ = s.store.Delete(ctx, table, key)
			continue
		}
		out = append(out, timestamped{Key: key, CreatedAt: probe.CreatedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *Service) purgeExpired(ctx context.Context, table string) {
	for _, e := range s.entriesByAge(ctx, table) {
		if !s.expired(e.CreatedAt) {
			break
		}
		_ = s.store.Delete(ctx, table, e.Key)
	}
}

// evictOldest shrinks the table to target entries, dropping the
// oldest-inserted first.
func (s *Service) evictOldest(ctx context.Context, table string, target int) {
	entries := s.entriesByAge(ctx, table)
	if target < 0 {
		target = 0
	}
	for i := 0; len(entries)-i > target; i++ {
		_ = s.store.Delete(ctx, table, entries[i].Key)
	}
}

var _ ports.CacheService = (*Service)(nil)
