package cache

import (
	"strconv"
	"strings"
)

// NormalizeQuery case-folds and collapses whitespace so semantically
// identical queries map to the same cache slot.
func NormalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

// rollingHash is the legacy 31x rolling hash carried over from the first
// version of the cache. It has no collision handling: two distinct queries
// may share a slot, and a collision serves the colliding entry rather than
// failing. Do not replace with a stronger hash; existing stores would miss.
func rollingHash(s string) uint32 {
	var h int32
	for _, r := range s {
		h = h*31 + int32(r)
	}
	if h < 0 {
		return uint32(-int64(h))
	}
	return uint32(h)
}

// QueryKey derives the ai_cache key for a raw query.
func QueryKey(query string) string {
	return "q_" + strconv.FormatUint(uint64(rollingHash(NormalizeQuery(query))), 36)
}

// AudioKey derives the audio_cache key from the leading characters of the
// response text.
func AudioKey(text string, prefixLen int) string {
	runes := []rune(text)
	if len(runes) > prefixLen {
		runes = runes[:prefixLen]
	}
	return "a_" + strconv.FormatUint(uint64(rollingHash(string(runes))), 36)
}
