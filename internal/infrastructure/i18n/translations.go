package i18n

import (
	"embed"
	"io/fs"
	"log"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"calbot/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

// Ensure Translator implements the output.T port.
var _ output.T = (*Translator)(nil)

// Translator renders catalog messages, resolving requested locales
// (e.g. "en-GB", Discord's "es-ES") to the closest loaded catalog.
type Translator struct {
	bundle          *i18n.Bundle
	tags            []language.Tag
	matcher         language.Matcher
	defaultLanguage language.Tag
}

// NewTranslator loads every embedded active.*.toml catalog. defaultLocale is
// matched against them; an unparseable or unsupported locale falls back to French.
func NewTranslator(defaultLocale string) *Translator {
	bundle := i18n.NewBundle(language.French)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, _ := fs.Glob(localeFS, "active.*.toml")
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Printf("❌ i18n: chargement de %s: %v", file, err)
		}
	}

	tags := []language.Tag{language.French}
	for _, tag := range bundle.LanguageTags() {
		if tag != language.French {
			tags = append(tags, tag)
		}
	}

	t := &Translator{
		bundle:  bundle,
		tags:    tags,
		matcher: language.NewMatcher(tags),
	}
	t.defaultLanguage = t.match(defaultLocale, language.French)
	return t
}

// DefaultLocale returns the fallback locale as a BCP 47 string.
func (t *Translator) DefaultLocale() string {
	return t.defaultLanguage.String()
}

// Match returns the catalog locale serving requested, or the default
// locale when no catalog is close enough.
func (t *Translator) Match(requested string) string {
	return t.match(requested, t.defaultLanguage).String()
}

func (t *Translator) match(requested string, fallback language.Tag) language.Tag {
	if requested == "" {
		return fallback
	}
	tag, err := language.Parse(requested)
	if err != nil {
		return fallback
	}
	_, index, confidence := t.matcher.Match(tag)
	if confidence < language.High {
		return fallback
	}
	return t.tags[index]
}

// T renders the message identified by key for the catalog matching locale.
// If the key is not found there, it falls back to the default locale,
// then finally to the key itself.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}

	languages := []string{t.Match(locale)}
	if languages[0] != t.DefaultLocale() {
		languages = append(languages, t.DefaultLocale())
	}

	localizer := i18n.NewLocalizer(t.bundle, languages...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		log.Printf("⚠️ i18n: traduction absente (key=%s, locales=%v): %v", key, languages, err)
		return key
	}
	return msg
}
