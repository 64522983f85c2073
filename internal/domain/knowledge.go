package domain

// CropEntry binds a (crop, topic) pair to a localized canned answer.
type CropEntry struct {
	Crop   string        `yaml:"crop"`
	Topic  string        `yaml:"topic"`
	Answer LocalizedText `yaml:"answer"`
}

// ConceptEntry answers a general agricultural concept matched by substring
// against the normalized query.
type ConceptEntry struct {
	Name     string        `yaml:"name"`
	Keywords []string      `yaml:"keywords"`
	Answer   LocalizedText `yaml:"answer"`
}

// PatternRule is a deterministic symptom-to-diagnosis rule. Rules are
// evaluated in declaration order; for vision labels the rule with the most
// keyword hits wins.
type PatternRule struct {
	Condition      string        `yaml:"condition"`
	Keywords       []string      `yaml:"keywords"`
	Recommendation LocalizedText `yaml:"recommendation"`
}

// CropDefinition names a crop and the keywords that identify it in a query.
type CropDefinition struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// TopicDefinition names a crop topic and its trigger keywords.
type TopicDefinition struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// KnowledgeBase is the static, bundled advisory knowledge loaded once at
// startup and passed by reference into the resolver. It is never mutated
// after construction.
type KnowledgeBase struct {
	Crops    []CropDefinition  `yaml:"crops"`
	Topics   []TopicDefinition `yaml:"topics"`
	Entries  []CropEntry       `yaml:"entries"`
	Concepts []ConceptEntry    `yaml:"concepts"`
	Patterns []PatternRule     `yaml:"patterns"`

	// WeatherKeywords holds per-locale watering/weather intent triggers.
	WeatherKeywords map[Locale][]string `yaml:"weather_keywords"`
	// Fallback is the terminal "no specific info" answer per locale.
	Fallback LocalizedText `yaml:"fallback"`
	// NoInput is returned for empty queries.
	NoInput LocalizedText `yaml:"no_input"`
}

// DefaultTopic is looked up when no topic keyword matches, and is the
// fallback topic when a (crop, topic) pair has no entry.
const DefaultTopic = "care"

// Entry returns the answer for (crop, topic), falling back to
// (crop, DefaultTopic) when the specific topic is absent.
func (kb *KnowledgeBase) Entry(crop, topic string) (CropEntry, bool) {
	var fallback *CropEntry
	for i := range kb.Entries {
		e := &kb.Entries[i]
		if e.Crop != crop {
			continue
		}
		if e.Topic == topic {
			return *e, true
		}
		if e.Topic == DefaultTopic {
			fallback = e
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return CropEntry{}, false
}
