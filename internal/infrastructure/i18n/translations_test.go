package i18n

import (
	"strings"
	"testing"
)

func TestTranslator_Reminder(t *testing.T) {
	tr := NewTranslator("fr")
	msg := tr.T("", "broadcast.reminder", map[string]any{
		"Title": "Concert",
		"Start": "01/06/2026 à 20:00",
		"End":   "01/06/2026 à 22:00",
		"Until": "2 h 00 min",
	})
	for _, want := range []string{"Concert", "01/06/2026 à 20:00", "2 h 00 min"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q lacks %q", msg, want)
		}
	}
	if strings.Contains(msg, "<no value>") {
		t.Fatalf("optional description rendered: %q", msg)
	}
}

func TestTranslator_LocaleAndFallback(t *testing.T) {
	tr := NewTranslator("fr")
	if got := tr.T("en", "events.list.empty", nil); got != "No upcoming events." {
		t.Fatalf("en=%q", got)
	}
	if got := tr.T("de", "events.list.empty", nil); got != "Aucun événement à venir." {
		t.Fatalf("fallback=%q", got)
	}
	if got := tr.T("fr", "does.not.exist", nil); got != "does.not.exist" {
		t.Fatalf("missing key=%q", got)
	}
	if tr.DefaultLocale() != "fr" {
		t.Fatalf("default=%q", tr.DefaultLocale())
	}
}

func TestTranslator_CatalogsHaveSameKeys(t *testing.T) {
	tr := NewTranslator("fr")
	keys := []string{
		"broadcast.reminder", "events.list.header", "events.created", "events.duplicate",
		"import.summary", "broadcast.status", "errors.missing_fields", "errors.invalid_time_format",
		"errors.storage_failure", "errors.not_admin",
	}
	for _, locale := range []string{"fr", "en"} {
		for _, k := range keys {
			if got := tr.T(locale, k, map[string]any{}); got == k {
				t.Errorf("%s: key %s missing", locale, k)
			}
		}
	}
}

func TestTranslator_MatchesRegionalLocales(t *testing.T) {
	tr := NewTranslator("fr")
	cases := map[string]string{
		"en-GB": "en",
		"en-US": "en",
		"fr-CA": "fr",
		"es-ES": "fr",
		"":      "fr",
		"!!":    "fr",
	}
	for in, want := range cases {
		if got := tr.Match(in); got != want {
			t.Errorf("Match(%q)=%q want %q", in, got, want)
		}
	}
	if got := tr.T("en-GB", "events.list.empty", nil); got != "No upcoming events." {
		t.Fatalf("en-GB=%q", got)
	}
}

func TestTranslator_DefaultLocaleIsMatched(t *testing.T) {
	if got := NewTranslator("en-US").DefaultLocale(); got != "en" {
		t.Fatalf("en-US default=%q", got)
	}
	tr := NewTranslator("de")
	if got := tr.DefaultLocale(); got != "fr" {
		t.Fatalf("unsupported default=%q", got)
	}
	if got := tr.T("de", "events.list.empty", nil); got != "Aucun événement à venir." {
		t.Fatalf("de=%q", got)
	}
}
