// Package i18n looks up user-facing strings by dotted key.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

//go:embed locales/*.json
var localeFS embed.FS

// DefaultLocale is used when a requested locale has no message file.
const DefaultLocale = "en"

// Translator resolves keys like "habit.currentStreak" against one locale,
// falling back to the default locale for keys the locale lacks.
type Translator struct {
	locale   string
	messages map[string]any
	fallback map[string]any
}

// New loads locale. An unknown locale logs a warning and uses DefaultLocale.
func New(locale string, logger *log.Logger) (*Translator, error) {
	fallback, err := load(DefaultLocale)
	if err != nil {
		return nil, err
	}
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" || locale == DefaultLocale {
		return &Translator{locale: DefaultLocale, messages: fallback}, nil
	}
	msgs, err := load(locale)
	if err != nil {
		if logger != nil {
			logger.Warn("could not load locale, falling back", "locale", locale, "fallback", DefaultLocale, "err", err)
		}
		return &Translator{locale: DefaultLocale, messages: fallback}, nil
	}
	return &Translator{locale: locale, messages: msgs, fallback: fallback}, nil
}

func load(locale string) (map[string]any, error) {
	data, err := localeFS.ReadFile("locales/" + locale + ".json")
	if err != nil {
		return nil, fmt.Errorf("locale %s: %w", locale, err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("locale %s: %w", locale, err)
	}
	return m, nil
}

// Locales lists the embedded locale codes.
func Locales() []string {
	entries, _ := localeFS.ReadDir("locales")
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(out)
	return out
}

// Locale returns the active locale code.
func (t *Translator) Locale() string { return t.locale }

// Dir returns the text direction of the active locale.
func (t *Translator) Dir() string {
	if t.locale == "ar" {
		return "rtl"
	}
	return "ltr"
}

// T returns the message for key with {name} placeholders replaced.
// A key the active locale lacks resolves against DefaultLocale; a key
// missing there too, or naming a section rather than a string, yields key.
func (t *Translator) T(key string, repl map[string]any) string {
	text, ok := lookup(t.messages, key)
	if !ok && t.fallback != nil {
		text, ok = lookup(t.fallback, key)
	}
	if !ok {
		return key
	}
	for name, v := range repl {
		text = strings.ReplaceAll(text, "{"+name+"}", fmt.Sprint(v))
	}
	return text
}

func lookup(m map[string]any, key string) (string, bool) {
	var cur any = m
	for _, part := range strings.Split(key, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		if cur, ok = obj[part]; !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	return s, ok
}
