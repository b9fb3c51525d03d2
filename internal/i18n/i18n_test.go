package i18n

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	tr, err := New("en", nil)
	require.NoError(t, err)

	assert.Equal(t, "Current streak", tr.T("habit.currentStreak", nil))
	assert.Equal(t, "Completed today: 3", tr.T("pomodoro.completedToday", map[string]any{"count": 3}))
	assert.Equal(t, "Marked read done on 2024-06-02",
		tr.T("habit.done", map[string]any{"name": "read", "date": "2024-06-02"}))
}

func TestTranslateMissingKeyReturnsKey(t *testing.T) {
	tr, err := New("en", nil)
	require.NoError(t, err)
	assert.Equal(t, "habit.nope", tr.T("habit.nope", nil))
	assert.Equal(t, "habit", tr.T("habit", nil), "sections are not strings")
	assert.Equal(t, "habit.currentStreak.deeper", tr.T("habit.currentStreak.deeper", nil))
}

func TestArabicWithFallback(t *testing.T) {
	tr, err := New("ar", nil)
	require.NoError(t, err)
	assert.Equal(t, "ar", tr.Locale())
	assert.Equal(t, "rtl", tr.Dir())
	assert.Equal(t, "السلسلة الحالية", tr.T("habit.currentStreak", nil))
	// pomodoro.help only exists in English.
	assert.Equal(t, "space start/pause • r reset • w/s/l switch mode • q quit", tr.T("pomodoro.help", nil))
	assert.Equal(t, "pomodoro.nope", tr.T("pomodoro.nope", nil))
	assert.Equal(t, "حذف 3 ملاحظات؟", tr.T("note.confirmDeleteMany", map[string]any{"count": 3}))
}

func flatten(prefix string, m map[string]any, out map[string]bool) {
	for k, v := range m {
		if sub, ok := v.(map[string]any); ok {
			flatten(prefix+k+".", sub, out)
			continue
		}
		out[prefix+k] = true
	}
}

func TestLocaleKeysMatch(t *testing.T) {
	en, err := load("en")
	require.NoError(t, err)
	ar, err := load("ar")
	require.NoError(t, err)
	enKeys, arKeys := map[string]bool{}, map[string]bool{}
	flatten("", en, enKeys)
	flatten("", ar, arKeys)

	for k := range arKeys {
		assert.True(t, enKeys[k], "ar key %s missing from en", k)
	}
	var onlyEn []string
	for k := range enKeys {
		if !arKeys[k] {
			onlyEn = append(onlyEn, k)
		}
	}
	assert.Equal(t, []string{"pomodoro.help"}, onlyEn)
}

func TestUnknownLocaleFallsBack(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	tr, err := New("xx", logger)
	require.NoError(t, err)
	assert.Equal(t, DefaultLocale, tr.Locale())
	assert.Equal(t, "ltr", tr.Dir())
	assert.Equal(t, "Total", tr.T("habit.total", nil))
	assert.Contains(t, buf.String(), "falling back")
}

func TestLocales(t *testing.T) {
	assert.Equal(t, []string{"ar", "en"}, Locales())
}
