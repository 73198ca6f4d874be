package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestParseTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value  string
		want   language.Tag
		wantOK bool
	}{
		{value: "ru", want: language.Russian, wantOK: true},
		{value: "ru-RU", want: language.Russian, wantOK: true},
		{value: "en-US", want: language.AmericanEnglish, wantOK: true},
		{value: "", want: language.Russian, wantOK: false},
		{value: "not a tag!", want: language.Russian, wantOK: false},
		{value: "ja", want: language.Russian, wantOK: false},
	}
	for _, tc := range tests {
		got, ok := ParseTag(tc.value)
		if got != tc.want || ok != tc.wantOK {
			t.Fatalf("ParseTag(%q) = %v, %v; want %v, %v", tc.value, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestMatchTags(t *testing.T) {
	t.Parallel()

	if got := MatchTags(nil); got != DefaultTag() {
		t.Fatalf("MatchTags(nil) = %v, want default", got)
	}
	if got := MatchTags([]language.Tag{language.English}); got != language.AmericanEnglish {
		t.Fatalf("MatchTags(en) = %v, want en-US", got)
	}
}

func TestLocaleForTag(t *testing.T) {
	t.Parallel()

	if got := LocaleForTag(language.AmericanEnglish); got != "en-US" {
		t.Fatalf("LocaleForTag(en-US) = %q", got)
	}
	if got := LocaleForTag(language.Russian); got != "ru-RU" {
		t.Fatalf("LocaleForTag(ru) = %q", got)
	}
	if got := LocaleForTag(language.Japanese); got != "ru-RU" {
		t.Fatalf("LocaleForTag(ja) = %q, want base locale", got)
	}
}
