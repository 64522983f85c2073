package domain

// Locale identifies a supported answer language.
type Locale string

const (
	// LocaleEnglish is the default locale; every translatable string must
	// carry an English variant.
	LocaleEnglish Locale = "en"
	// LocaleHindi is the primary regional locale.
	LocaleHindi Locale = "hi"
)

// DefaultLocale is used when a request carries no locale or a translation
// is missing.
const DefaultLocale = LocaleEnglish

// SupportedLocales lists the locales the knowledge base ships answers for.
var SupportedLocales = []Locale{LocaleEnglish, LocaleHindi}

// LocalizedText maps locales to a translated string.
type LocalizedText map[Locale]string

// Resolve returns the text for loc, falling back to the default locale and
// then to any available translation.
func (t LocalizedText) Resolve(loc Locale) string {
	if s, ok := t[loc]; ok && s != "" {
		return s
	}
	if s, ok := t[DefaultLocale]; ok && s != "" {
		return s
	}
	for _, l := range SupportedLocales {
		if s, ok := t[l]; ok && s != "" {
			return s
		}
	}
	return ""
}

// NormalizeLocale maps arbitrary locale input to a supported Locale.
func NormalizeLocale(raw string) Locale {
	for _, l := range SupportedLocales {
		if string(l) == raw {
			return l
		}
	}
	return DefaultLocale
}
