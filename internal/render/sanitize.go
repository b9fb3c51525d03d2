package render

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips anything from a rendered fragment that Markdown itself
// would never emit. Exported files may be opened by other tools, so the
// export path runs fragments through it after rendering.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds the allow-list policy matching the renderer output.
func NewSanitizer() *Sanitizer {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"h1", "h2", "h3",
		"strong", "em",
		"ul", "li",
		"hr", "br",
	)
	return &Sanitizer{policy: p}
}

// Sanitize returns the fragment with disallowed elements and attributes removed.
func (s *Sanitizer) Sanitize(fragment string) string {
	if fragment == "" {
		return ""
	}
	return s.policy.Sanitize(fragment)
}

var documentTmpl = template.Must(template.New("note").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}" dir="{{.Dir}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<article>
{{.Body}}
</article>
</body>
</html>
`))

// DocumentOptions controls the standalone page produced by Document.
type DocumentOptions struct {
	Title string
	Lang  string
	Dir   string
}

// Document wraps an already rendered fragment into a standalone HTML page.
// The fragment is inserted verbatim; callers sanitize it first.
func Document(fragment string, opts DocumentOptions) (string, error) {
	if opts.Lang == "" {
		opts.Lang = "en"
	}
	if opts.Dir == "" {
		opts.Dir = "ltr"
	}
	var buf bytes.Buffer
	err := documentTmpl.Execute(&buf, struct {
		Title string
		Lang  string
		Dir   string
		Body  template.HTML
	}{opts.Title, opts.Lang, opts.Dir, template.HTML(fragment)})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
