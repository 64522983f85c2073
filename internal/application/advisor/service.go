// Package advisor implements the advisory resolution cascade: an ordered
// list of resolver tiers where the first tier to produce an advisory wins.
// The cascade never returns an error for a non-empty query; every
// collaborator failure falls through to the next tier and ultimately to a
// fixed per-locale fallback.
package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agrovoice/agrovoice-go/internal/domain"
	"github.com/agrovoice/agrovoice-go/internal/ports"
)

// Service resolves advisory queries against the knowledge base, cache and
// online collaborators.
type Service struct {
	Knowledge    *domain.KnowledgeBase
	Cache        ports.CacheService
	Connectivity ports.ConnectivityDetector
	Chat         ports.ChatProvider
	Speech       ports.SpeechSynthesizer
	Logger       ports.Logger

	ChatTimeout   time.Duration
	SpeechTimeout time.Duration
}

type request struct {
	ctx     context.Context
	query   string
	locale  domain.Locale
	weather *domain.WeatherContext
	history []domain.ChatTurn
}

// A tier inspects the request and either produces a final advisory or
// passes by returning nil.
type tierFunc func(*request) *domain.Advisory

// Resolve runs the cascade for one query. Connectivity is sampled once per
// call; the tier order differs only in whether the AI tier is reachable.
func (s *Service) Resolve(req domain.AdvisoryRequest) domain.Advisory {
	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}
	locale := req.Locale
	if locale == "" {
		locale = domain.DefaultLocale
	}

	query := normalize(req.Query)
	if query == "" {
		return domain.Advisory{
			Condition:      "No Input",
			Confidence:     domain.ConfidenceLow,
			Recommendation: s.Knowledge.NoInput.Resolve(locale),
			Source:         domain.SourceNoInput,
		}
	}

	r := &request{
		ctx:     ctx,
		query:   query,
		locale:  locale,
		weather: req.Weather,
		history: req.History,
	}

	offline := s.Connectivity == nil || s.Connectivity.Offline(ctx)
	tiers := []tierFunc{
		s.weatherTier,
		s.conceptTier,
		s.cropTopicTier,
		s.patternTier,
		s.cropCareTier,
	}
	if offline {
		tiers = append(tiers, s.cachedTier)
	} else {
		// The cached tier still runs after an AI failure so a previously
		// answered query degrades to its cached answer, not the fallback.
		tiers = append(tiers, s.aiTier, s.cachedTier)
	}

	for _, tier := range tiers {
		if adv := tier(r); adv != nil {
			return *adv
		}
	}

	return domain.Advisory{
		Condition:      "General Guidance",
		Confidence:     domain.ConfidenceLow,
		Recommendation: s.Knowledge.Fallback.Resolve(locale),
		Source:         domain.SourceFallback,
	}
}

// weatherTier answers watering/weather questions directly from the live
// context when one was supplied.
func (s *Service) weatherTier(r *request) *domain.Advisory {
	if r.weather == nil {
		return nil
	}
	var keywords []string
	keywords = append(keywords, s.Knowledge.WeatherKeywords[r.locale]...)
	if r.locale != domain.DefaultLocale {
		keywords = append(keywords, s.Knowledge.WeatherKeywords[domain.DefaultLocale]...)
	}
	if !hasAnyKeyword(r.query, keywords) {
		return nil
	}
	return &domain.Advisory{
		Condition:      "Weather Advisory",
		Confidence:     domain.ConfidenceHigh,
		Recommendation: weatherAdvice(r.locale, r.weather),
		Source:         domain.SourceWeather,
	}
}

// conceptTier matches general agricultural concepts. Concepts are sorted
// longest-keyword-first at load time, so the scan is a plain linear pass.
func (s *Service) conceptTier(r *request) *domain.Advisory {
	for _, concept := range s.Knowledge.Concepts {
		if !hasAnyKeyword(r.query, concept.Keywords) {
			continue
		}
		return &domain.Advisory{
			Condition:      capitalize(concept.Name),
			Confidence:     domain.ConfidenceHigh,
			Recommendation: concept.Answer.Resolve(r.locale),
			Source:         domain.SourceConcept,
		}
	}
	return nil
}

// cropTopicTier needs both a crop and an explicit topic keyword; a bare
// crop mention defers to the pattern tier first and is picked up by
// cropCareTier afterwards.
func (s *Service) cropTopicTier(r *request) *domain.Advisory {
	crop := s.matchCrop(r.query)
	if crop == "" {
		return nil
	}
	topic := s.matchTopic(r.query)
	if topic == "" {
		return nil
	}
	entry, ok := s.Knowledge.Entry(crop, topic)
	if !ok {
		return nil
	}
	return &domain.Advisory{
		Condition:      capitalize(crop + " " + entry.Topic),
		Confidence:     domain.ConfidenceHigh,
		Recommendation: entry.Answer.Resolve(r.locale),
		Source:         domain.SourceCrop,
	}
}

// patternTier applies symptom rules; the first rule with any keyword hit
// wins, in declaration order.
func (s *Service) patternTier(r *request) *domain.Advisory {
	for _, rule := range s.Knowledge.Patterns {
		if !hasAnyKeyword(r.query, rule.Keywords) {
			continue
		}
		return &domain.Advisory{
			Condition:      rule.Condition,
			Confidence:     domain.ConfidenceMedium,
			Recommendation: rule.Recommendation.Resolve(r.locale),
			Source:         domain.SourcePattern,
		}
	}
	return nil
}

// cropCareTier is the default-topic lookup for a crop mention that matched
// neither a topic keyword nor a pattern rule.
func (s *Service) cropCareTier(r *request) *domain.Advisory {
	crop := s.matchCrop(r.query)
	if crop == "" {
		return nil
	}
	entry, ok := s.Knowledge.Entry(crop, domain.DefaultTopic)
	if !ok {
		return nil
	}
	return &domain.Advisory{
		Condition:      capitalize(crop + " " + domain.DefaultTopic),
		Confidence:     domain.ConfidenceHigh,
		Recommendation: entry.Answer.Resolve(r.locale),
		Source:         domain.SourceCrop,
	}
}

// aiTier delegates to the language-model collaborator. Any error reads as
// "tier unavailable"; on success the answer and its speech are written back
// to the cache best-effort.
func (s *Service) aiTier(r *request) *domain.Advisory {
	if s.Chat == nil {
		return nil
	}
	timeout := s.ChatTimeout
	if timeout <= 0 {
		timeout = domain.DefaultChatTimeout
	}
	ctx, cancel := context.WithTimeout(r.ctx, timeout)
	defer cancel()

	result, err := s.Chat.Chat(ctx, ports.ChatRequest{
		Query:   r.query,
		Locale:  r.locale,
		Weather: r.weather,
		History: trailingTurns(r.history, domain.MaxHistoryTurns),
	})
	if err != nil || result == nil || strings.TrimSpace(result.Text) == "" {
		if err != nil && s.Logger != nil {
			s.Logger.Warn("ai tier unavailable", map[string]interface{}{"error": err.Error()})
		}
		return nil
	}

	if s.Cache != nil {
		s.Cache.CacheAIResponse(r.ctx, r.query, result.Text)
		s.cacheSpeech(r.ctx, result.Text, r.locale)
	}

	return &domain.Advisory{
		Condition:      "AI Advisory",
		Confidence:     domain.ConfidenceHigh,
		Recommendation: result.Text,
		Source:         domain.SourceAI,
	}
}

// cachedTier replays a previously cached AI answer for a semantically
// identical query.
func (s *Service) cachedTier(r *request) *domain.Advisory {
	if s.Cache == nil {
		return nil
	}
	response, ok := s.Cache.CachedAIResponse(r.ctx, r.query)
	if !ok {
		return nil
	}
	return &domain.Advisory{
		Condition:      "AI Advisory",
		Confidence:     domain.ConfidenceHigh,
		Recommendation: response,
		Source:         domain.SourceCache,
		FromCache:      true,
	}
}

// ResolveLabels scores pattern rules against vision-classifier labels: the
// rule with the most keyword hits wins, ties broken by declaration order.
func (s *Service) ResolveLabels(labels []domain.Label, locale domain.Locale) domain.Advisory {
	if locale == "" {
		locale = domain.DefaultLocale
	}
	text := make([]string, 0, len(labels))
	for _, l := range labels {
		text = append(text, strings.ToLower(l.Name))
	}
	joined := strings.Join(text, " ")

	best := -1
	bestScore := 0
	for i, rule := range s.Knowledge.Patterns {
		score := 0
		for _, kw := range rule.Keywords {
			if keywordHit(joined, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return domain.Advisory{
			Condition:      "General Guidance",
			Confidence:     domain.ConfidenceLow,
			Recommendation: s.Knowledge.Fallback.Resolve(locale),
			Source:         domain.SourceFallback,
		}
	}
	rule := s.Knowledge.Patterns[best]
	return domain.Advisory{
		Condition:      rule.Condition,
		Confidence:     domain.ConfidenceMedium,
		Recommendation: rule.Recommendation.Resolve(locale),
		Source:         domain.SourcePattern,
	}
}

// SpeakAnswer returns base64 audio for an advisory, serving from the audio
// cache when possible and synthesizing (and caching) otherwise.
func (s *Service) SpeakAnswer(ctx context.Context, adv domain.Advisory, locale domain.Locale) (string, bool) {
	if s.Cache != nil {
		if audio, ok := s.Cache.CachedAudio(ctx, adv.Recommendation); ok {
			return audio, true
		}
	}
	if s.Speech == nil {
		return "", false
	}
	timeout := s.SpeechTimeout
	if timeout <= 0 {
		timeout = domain.DefaultSpeechTimeout
	}
	speechCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	audio, err := s.Speech.Synthesize(speechCtx, adv.Recommendation, locale)
	if err != nil || audio == "" {
		return "", false
	}
	if s.Cache != nil {
		if err := s.Cache.CacheAudio(ctx, adv.Recommendation, audio, locale); err != nil && s.Logger != nil {
			s.Logger.Debug("audio not cached", map[string]interface{}{"error": err.Error()})
		}
	}
	return audio, true
}

func (s *Service) cacheSpeech(ctx context.Context, text string, locale domain.Locale) {
	if s.Speech == nil {
		return
	}
	timeout := s.SpeechTimeout
	if timeout <= 0 {
		timeout = domain.DefaultSpeechTimeout
	}
	speechCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	audio, err := s.Speech.Synthesize(speechCtx, text, locale)
	if err != nil || audio == "" {
		return
	}
	_ = s.Cache.CacheAudio(ctx, text, audio, locale)
}

func (s *Service) matchCrop(query string) string {
	for _, crop := range s.Knowledge.Crops {
		if hasAnyKeyword(query, crop.Keywords) {
			return crop.Name
		}
	}
	return ""
}

func (s *Service) matchTopic(query string) string {
	for _, topic := range s.Knowledge.Topics {
		if hasAnyKeyword(query, topic.Keywords) {
			return topic.Name
		}
	}
	return ""
}

func trailingTurns(history []domain.ChatTurn, max int) []domain.ChatTurn {
	if len(history) <= max {
		return history
	}
	return history[len(history)-max:]
}

func weatherAdvice(locale domain.Locale, w *domain.WeatherContext) string {
	switch {
	case rainExpected(w.WeatherCode):
		if locale == domain.LocaleHindi {
			return fmt.Sprintf("Barish ke aasar hain (%.0f°C, %d%% nami). Aaj sinchai aur chidkav rok dein; barish ke baad jal nikasi janchein.", w.TemperatureC, w.HumidityPercent)
		}
		return fmt.Sprintf("Rain is expected (%.0f°C, %d%% humidity). Hold off irrigation and spraying today, and check field drainage after the rain.", w.TemperatureC, w.HumidityPercent)
	case w.HumidityPercent >= 80:
		if locale == domain.LocaleHindi {
			return fmt.Sprintf("Nami bahut adhik hai (%d%%, %.0f°C). Sinchai tal dein aur fungal rog ke lakshan par nazar rakhein.", w.HumidityPercent, w.TemperatureC)
		}
		return fmt.Sprintf("Humidity is high (%d%% at %.0f°C). Skip irrigation for now and watch for fungal disease symptoms.", w.HumidityPercent, w.TemperatureC)
	case w.TemperatureC >= 35:
		if locale == domain.LocaleHindi {
			return fmt.Sprintf("Tapman adhik hai (%.0f°C). Sham ko jad ke paas gehri sinchai karein aur mulch se nami bachayein.", w.TemperatureC)
		}
		return fmt.Sprintf("It is hot (%.0f°C). Irrigate deeply at the base in the evening and mulch to conserve moisture.", w.TemperatureC)
	default:
		if locale == domain.LocaleHindi {
			return fmt.Sprintf("Mausam anukool hai (%.0f°C, %d%% nami). Subah jaldi samanya sinchai karein; dopahar ki sinchai se bachein.", w.TemperatureC, w.HumidityPercent)
		}
		return fmt.Sprintf("Conditions are favourable (%.0f°C, %d%% humidity). Irrigate normally in the early morning and avoid midday watering.", w.TemperatureC, w.HumidityPercent)
	}
}

// rainExpected covers the WMO drizzle/rain/thunderstorm code ranges.
func rainExpected(code int) bool {
	return (code >= 51 && code <= 67) || (code >= 80 && code <= 99)
}

func normalize(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

// hasAnyKeyword reports whether any keyword occurs in the normalized query.
// Single-word keywords match whole tokens; multi-word keywords match as
// substrings.
func hasAnyKeyword(query string, keywords []string) bool {
	for _, kw := range keywords {
		if keywordHit(query, kw) {
			return true
		}
	}
	return false
}

func keywordHit(query, keyword string) bool {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return false
	}
	if strings.Contains(keyword, " ") {
		return strings.Contains(query, keyword)
	}
	for _, token := range strings.Fields(query) {
		if strings.Trim(token, ".,!?;:\"'()") == keyword {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
