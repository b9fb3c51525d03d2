package render

import (
	"regexp"
	"strings"
)

// rule is one substitution pass of the renderer.
type rule struct {
	re   *regexp.Regexp
	repl string
}

// Rules run in order: later passes see tags inserted by earlier ones,
// so escaping must come first and bold must run before italic.
var rules = []rule{
	{regexp.MustCompile(`(?m)^### (.*)$`), "<h3>$1</h3>"},
	{regexp.MustCompile(`(?m)^## (.*)$`), "<h2>$1</h2>"},
	{regexp.MustCompile(`(?m)^# (.*)$`), "<h1>$1</h1>"},
	{regexp.MustCompile(`\*\*(.*?)\*\*`), "<strong>$1</strong>"},
	{regexp.MustCompile(`\*(.*?)\*`), "<em>$1</em>"},
	{regexp.MustCompile(`(?m)^[ \t]*[-*] (.*)$`), "<ul><li>$1</li></ul>"},
	// consecutive list lines collapse into one <ul>
	{regexp.MustCompile(`</ul>\n<ul>`), ""},
	{regexp.MustCompile(`(?m)^-{3,}[ \t]*$`), "<hr/>"},
	// a block owns its line terminator
	{regexp.MustCompile(`(</h[1-3]>|</ul>|<hr/>)\n`), "$1"},
	{regexp.MustCompile(`\n`), "<br/>"},
	{regexp.MustCompile(`<br/>(<h[1-3]>|<ul>|<hr/>)`), "$1"},
	{regexp.MustCompile(`(</h[1-3]>|</ul>|<hr/>)<br/>`), "$1"},
}

var escaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// Markdown converts note text into an HTML fragment for preview panes.
//
// Only a small subset is supported: #/##/### headings, **bold**, *italic*,
// "-" or "*" list items, --- rules and hard line breaks. Raw HTML in the
// input is escaped before any rule runs. Only "\n" ends a line, so a "\r"
// before it is kept as text. The function is total; malformed markup
// produces odd but harmless output.
func Markdown(text string) string {
	if text == "" {
		return ""
	}
	html := escaper.Replace(text)
	for _, r := range rules {
		html = r.re.ReplaceAllString(html, r.repl)
	}
	return html
}
