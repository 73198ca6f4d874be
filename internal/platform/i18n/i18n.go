// Package i18n resolves language tags against the locales the catalogs ship.
package i18n

import (
	"strings"

	"github.com/louisbranch/gradpack/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
)

var (
	supportedTags = []language.Tag{language.Russian, language.AmericanEnglish}
	matcher       = language.NewMatcher(supportedTags)
)

// DefaultTag returns the language used when nothing else matches.
func DefaultTag() language.Tag {
	return supportedTags[0]
}

// SupportedTags returns the supported tags, default first.
func SupportedTags() []language.Tag {
	out := make([]language.Tag, len(supportedTags))
	copy(out, supportedTags)
	return out
}

// ParseTag parses value and reports whether it names a supported language.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultTag(), false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return DefaultTag(), false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence < language.High {
		return DefaultTag(), false
	}
	return supportedTags[index], true
}

// MatchTags returns the best supported tag for the preference list.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return DefaultTag()
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supportedTags[index]
}

// LocaleForTag returns the catalog locale for tag.
func LocaleForTag(tag language.Tag) string {
	base, _ := tag.Base()
	switch base.String() {
	case "en":
		return "en-US"
	case "ru":
		return "ru-RU"
	default:
		return catalog.BaseLocale
	}
}
