package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKeepsRendererTags(t *testing.T) {
	s := NewSanitizer()
	frag := Markdown("# Title\n- **one**\n- *two*\n---\nend")
	out := s.Sanitize(frag)
	for _, tag := range []string{"<h1>", "<ul>", "<li>", "<strong>", "<em>", "end"} {
		assert.Contains(t, out, tag)
	}
}

func TestSanitizeStripsForeignMarkup(t *testing.T) {
	s := NewSanitizer()
	out := s.Sanitize(`<h1 onclick="x()">hi</h1><script>alert(1)</script><a href="javascript:x">l</a>`)
	assert.Contains(t, out, "<h1>hi</h1>")
	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "javascript")
}

func TestSanitizeKeepsEscapedText(t *testing.T) {
	s := NewSanitizer()
	out := s.Sanitize(Markdown("<img src=x onerror=alert(1)>"))
	assert.NotContains(t, out, "<img")
	assert.Contains(t, out, "&lt;img")
	assert.Empty(t, s.Sanitize(""))
}

func TestDocument(t *testing.T) {
	doc, err := Document("<h1>x</h1>", DocumentOptions{Title: "A <b> title"})
	require.NoError(t, err)
	assert.Contains(t, doc, "<h1>x</h1>")
	assert.Contains(t, doc, "<title>A &lt;b&gt; title</title>")
	assert.Contains(t, doc, `lang="en"`)
	assert.Contains(t, doc, `dir="ltr"`)

	doc, err = Document("", DocumentOptions{Lang: "ar", Dir: "rtl"})
	require.NoError(t, err)
	assert.Contains(t, doc, `dir="rtl"`)
}
