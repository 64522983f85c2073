package advisor

import (
	"context"
	"errors"
	"testing"

	"github.com/agrovoice/agrovoice-go/internal/domain"
	"github.com/agrovoice/agrovoice-go/internal/pkg/logger"
	"github.com/agrovoice/agrovoice-go/internal/ports"
)

func testKnowledge() *domain.KnowledgeBase {
	return &domain.KnowledgeBase{
		Crops: []domain.CropDefinition{
			{Name: "tomato", Keywords: []string{"tomato", "tomatoes"}},
			{Name: "rice", Keywords: []string{"rice", "paddy"}},
		},
		Topics: []domain.TopicDefinition{
			{Name: "watering", Keywords: []string{"water", "watering", "irrigation"}},
			{Name: "pests", Keywords: []string{"pest", "insect"}},
		},
		Entries: []domain.CropEntry{
			{Crop: "tomato", Topic: "care", Answer: domain.LocalizedText{"en": "General tomato care.", "hi": "Tamatar ki dekhbhal."}},
			{Crop: "tomato", Topic: "watering", Answer: domain.LocalizedText{"en": "Water tomatoes deeply twice a week."}},
			{Crop: "rice", Topic: "care", Answer: domain.LocalizedText{"en": "Keep paddy fields flooded."}},
		},
		// Sorted longest keyword first, as the loader guarantees.
		Concepts: []domain.ConceptEntry{
			{Name: "soil moisture testing", Keywords: []string{"soil moisture testing", "soil moisture"}, Answer: domain.LocalizedText{"en": "Squeeze a handful of soil."}},
			{Name: "composting", Keywords: []string{"composting", "compost"}, Answer: domain.LocalizedText{"en": "Layer green and dry waste.", "hi": "Hara aur sukha kachra tah mein rakhein."}},
			{Name: "soil", Keywords: []string{"soil"}, Answer: domain.LocalizedText{"en": "Healthy soil is living soil."}},
		},
		Patterns: []domain.PatternRule{
			{Condition: "Possible Nutrient Deficiency", Keywords: []string{"yellow", "yellowing", "pale"}, Recommendation: domain.LocalizedText{"en": "Apply balanced NPK."}},
			{Condition: "Possible Fungal Infection", Keywords: []string{"spot", "spots", "blight"}, Recommendation: domain.LocalizedText{"en": "Spray copper fungicide."}},
		},
		WeatherKeywords: map[domain.Locale][]string{
			"en": {"water", "watering", "irrigate", "rain"},
			"hi": {"pani", "sinchai"},
		},
		Fallback: domain.LocalizedText{"en": "I don't have specific information on that yet.", "hi": "Iski vishesh jankari nahi hai."},
		NoInput:  domain.LocalizedText{"en": "Please ask a question about your crop."},
	}
}

type stubConnectivity bool

func (s stubConnectivity) Offline(context.Context) bool { return bool(s) }

type stubCache struct {
	responses map[string]string
	audio     map[string]string
	cached    []string
}

func newStubCache() *stubCache {
	return &stubCache{responses: map[string]string{}, audio: map[string]string{}}
}

func (c *stubCache) CacheAIResponse(_ context.Context, query, response string) {
	c.responses[query] = response
	c.cached = append(c.cached, query)
}

func (c *stubCache) CachedAIResponse(_ context.Context, query string) (string, bool) {
	r, ok := c.responses[query]
	return r, ok
}

func (c *stubCache) CacheAudio(_ context.Context, text, audioBase64 string, _ domain.Locale) error {
	c.audio[text] = audioBase64
	return nil
}

func (c *stubCache) CachedAudio(_ context.Context, text string) (string, bool) {
	a, ok := c.audio[text]
	return a, ok
}

func (c *stubCache) Clear(context.Context) error { return nil }

func (c *stubCache) Stats(context.Context) (domain.CacheStats, error) {
	return domain.CacheStats{Count: len(c.responses) + len(c.audio)}, nil
}

type stubChat struct {
	result *ports.ChatResult
	err    error
	called bool
}

func (c *stubChat) Chat(context.Context, ports.ChatRequest) (*ports.ChatResult, error) {
	c.called = true
	return c.result, c.err
}

func newService(offline bool, chat ports.ChatProvider, cache ports.CacheService) *Service {
	return &Service{
		Knowledge:    testKnowledge(),
		Cache:        cache,
		Connectivity: stubConnectivity(offline),
		Chat:         chat,
		Logger:       logger.NewStd(false),
	}
}

func TestResolveEmptyQuery(t *testing.T) {
	svc := newService(true, nil, newStubCache())
	adv := svc.Resolve(domain.AdvisoryRequest{Query: "   "})
	if adv.Source != domain.SourceNoInput {
		t.Fatalf("source = %s, want no_input", adv.Source)
	}
	if adv.Recommendation == "" {
		t.Fatal("empty recommendation for empty query")
	}
}

func TestResolveConceptMatch(t *testing.T) {
	svc := newService(true, nil, newStubCache())
	adv := svc.Resolve(domain.AdvisoryRequest{Query: "what is composting"})
	if adv.Condition != "Composting" {
		t.Fatalf("condition = %q, want Composting", adv.Condition)
	}
	if adv.Confidence != domain.ConfidenceHigh {
		t.Fatalf("confidence = %s, want high", adv.Confidence)
	}
	if adv.Recommendation != "Layer green and dry waste." {
		t.Fatalf("recommendation = %q", adv.Recommendation)
	}
}

func TestResolveConceptLongestFirst(t *testing.T) {
	svc := newService(true, nil, newStubCache())
	adv := svc.Resolve(domain.AdvisoryRequest{Query: "explain soil moisture testing please"})
	if adv.Condition != "Soil Moisture Testing" {
		t.Fatalf("condition = %q, want Soil Moisture Testing", adv.Condition)
	}
}

func TestResolveCropTopic(t *testing.T) {
	svc := newService(true, nil, newStubCache())
	adv := svc.Resolve(domain.AdvisoryRequest{Query: "how often should I water my tomato plants"})
	if adv.Condition != "Tomato Watering" {
		t.Fatalf("condition = %q, want Tomato Watering", adv.Condition)
	}
	if adv.Recommendation != "Water tomatoes deeply twice a week." {
		t.Fatalf("recommendation = %q", adv.Recommendation)
	}
}

func TestResolveCropTopicFallsBackToCare(t *testing.T) {
	svc := newService(true, nil, newStubCache())
	// Tomato has no "pests" entry; the lookup falls back to (tomato, care).
	adv := svc.Resolve(domain.AdvisoryRequest{Query: "tomato pest problem"})
	if adv.Recommendation != "General tomato care." {
		t.Fatalf("recommendation = %q, want care fallback", adv.Recommendation)
	}
}

func TestResolvePatternBeatsCropCare(t *testing.T) {
	svc := newService(true, nil, newStubCache())
	adv := svc.Resolve(domain.AdvisoryRequest{Query: "my tomato leaves are yellow"})
	if adv.Condition != "Possible Nutrient Deficiency" {
		t.Fatalf("condition = %q, want Possible Nutrient Deficiency", adv.Condition)
	}
	if adv.Confidence != domain.ConfidenceMedium {
		t.Fatalf("confidence = %s, want medium", adv.Confidence)
	}
}

func TestResolveCropCareDefault(t *testing.T) {
	svc := newService(true, nil, newStubCache())
	adv := svc.Resolve(domain.AdvisoryRequest{Query: "tell me about tomatoes"})
	if adv.Condition != "Tomato Care" {
		t.Fatalf("condition = %q, want Tomato Care", adv.Condition)
	}
	if adv.Confidence != domain.ConfidenceHigh {
		t.Fatalf("confidence = %s, want high", adv.Confidence)
	}
}

func TestResolveWeatherTier(t *testing.T) {
	svc := newService(true, nil, newStubCache())
	adv := svc.Resolve(domain.AdvisoryRequest{
		Query:   "should I water the field today",
		Weather: &domain.WeatherContext{TemperatureC: 38, HumidityPercent: 40},
	})
	if adv.Source != domain.SourceWeather {
		t.Fatalf("source = %s, want weather", adv.Source)
	}
	if adv.Confidence != domain.ConfidenceHigh {
		t.Fatalf("confidence = %s, want high", adv.Confidence)
	}
	if adv.Recommendation == "" {
		t.Fatal("empty weather recommendation")
	}
}

func TestResolveOfflineTerminalFallback(t *testing.T) {
	svc := newService(true, nil, newStubCache())
	adv := svc.Resolve(domain.AdvisoryRequest{Query: "quantum market futures"})
	if adv.Source != domain.SourceFallback {
		t.Fatalf("source = %s, want fallback", adv.Source)
	}
	if adv.Confidence != domain.ConfidenceLow {
		t.Fatalf("confidence = %s, want low", adv.Confidence)
	}
	if adv.Recommendation != "I don't have specific information on that yet." {
		t.Fatalf("recommendation = %q", adv.Recommendation)
	}
}

func TestResolveOfflineCachedResponse(t *testing.T) {
	cache := newStubCache()
	cache.responses["quantum market futures"] = "Previously cached answer."
	svc := newService(true, nil, cache)

	adv := svc.Resolve(domain.AdvisoryRequest{Query: "  Quantum   MARKET futures "})
	if !adv.FromCache {
		t.Fatal("expected cached advisory")
	}
	if adv.Recommendation != "Previously cached answer." {
		t.Fatalf("recommendation = %q", adv.Recommendation)
	}
}

func TestResolveOnlineAITier(t *testing.T) {
	cache := newStubCache()
	chat := &stubChat{result: &ports.ChatResult{Text: "AI answer.", ModelID: "test"}}
	svc := newService(false, chat, cache)

	adv := svc.Resolve(domain.AdvisoryRequest{Query: "quantum market futures"})
	if adv.Source != domain.SourceAI {
		t.Fatalf("source = %s, want ai", adv.Source)
	}
	if adv.Confidence != domain.ConfidenceHigh {
		t.Fatalf("confidence = %s, want high", adv.Confidence)
	}
	if got := cache.responses["quantum market futures"]; got != "AI answer." {
		t.Fatalf("response not cached, got %q", got)
	}
}

func TestResolveAIOnlyReachedWhenLocalTiersMiss(t *testing.T) {
	chat := &stubChat{result: &ports.ChatResult{Text: "AI answer."}}
	svc := newService(false, chat, newStubCache())

	svc.Resolve(domain.AdvisoryRequest{Query: "what is composting"})
	if chat.called {
		t.Fatal("AI tier called despite concept match")
	}
}

func TestResolveAIFailureFallsThroughToCache(t *testing.T) {
	cache := newStubCache()
	cache.responses["quantum market futures"] = "Stale but useful."
	chat := &stubChat{err: errors.New("timeout")}
	svc := newService(false, chat, cache)

	adv := svc.Resolve(domain.AdvisoryRequest{Query: "quantum market futures"})
	if !adv.FromCache {
		t.Fatalf("expected cached fall-through, got source %s", adv.Source)
	}
}

func TestResolveAIFailureFallsThroughToTerminal(t *testing.T) {
	chat := &stubChat{err: errors.New("unreachable")}
	svc := newService(false, chat, newStubCache())

	adv := svc.Resolve(domain.AdvisoryRequest{Query: "quantum market futures"})
	if adv.Source != domain.SourceFallback {
		t.Fatalf("source = %s, want fallback", adv.Source)
	}
	if adv.Recommendation == "" {
		t.Fatal("empty recommendation")
	}
}

func TestResolveLocaleFallsBackToEnglish(t *testing.T) {
	svc := newService(true, nil, newStubCache())
	// The watering entry has no Hindi variant; English must be served.
	adv := svc.Resolve(domain.AdvisoryRequest{Query: "tomato watering schedule", Locale: domain.LocaleHindi})
	if adv.Recommendation != "Water tomatoes deeply twice a week." {
		t.Fatalf("recommendation = %q", adv.Recommendation)
	}
}

func TestResolveLabelsHighestMatchWins(t *testing.T) {
	svc := newService(true, nil, newStubCache())
	labels := []domain.Label{
		{Name: "leaf spot", Score: 0.9},
		{Name: "brown spots", Score: 0.7},
		{Name: "yellow edge", Score: 0.4},
	}
	// Fungal rule hits twice (spot, spots); nutrient rule once (yellow).
	adv := svc.ResolveLabels(labels, domain.LocaleEnglish)
	if adv.Condition != "Possible Fungal Infection" {
		t.Fatalf("condition = %q, want Possible Fungal Infection", adv.Condition)
	}
	if adv.Confidence != domain.ConfidenceMedium {
		t.Fatalf("confidence = %s, want medium", adv.Confidence)
	}
}

func TestResolveLabelsNoMatch(t *testing.T) {
	svc := newService(true, nil, newStubCache())
	adv := svc.ResolveLabels([]domain.Label{{Name: "healthy", Score: 0.99}}, domain.LocaleEnglish)
	if adv.Source != domain.SourceFallback {
		t.Fatalf("source = %s, want fallback", adv.Source)
	}
}

func TestResolveNeverEmptyRecommendation(t *testing.T) {
	queries := []string{"x", "tomato", "yellow", "composting", "soil", "unknown thing entirely"}
	for _, offline := range []bool{true, false} {
		svc := newService(offline, &stubChat{err: errors.New("down")}, newStubCache())
		for _, q := range queries {
			if adv := svc.Resolve(domain.AdvisoryRequest{Query: q}); adv.Recommendation == "" {
				t.Fatalf("empty recommendation for %q (offline=%v)", q, offline)
			}
		}
	}
}
