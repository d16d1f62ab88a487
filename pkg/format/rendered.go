package format

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/coolbeans/lexcite/pkg/citation"
)

// Rendered is formatted citation text plus the byte ranges of Text that are
// set in italics. The ranges are markup-neutral; Markup and HTML apply them.
type Rendered struct {
	Text    string          `json:"text"`
	Italics []citation.Span `json:"italics,omitempty"`
}

// Markup wraps each italic range in openTag and closeTag.
func (r Rendered) Markup(openTag, closeTag string) string {
	return r.apply(openTag, closeTag, func(s string) string { return s })
}

// HTML returns the text escaped for HTML with italics as <i> elements.
func (r Rendered) HTML() string {
	return r.apply("<i>", "</i>", html.EscapeString)
}

func (r Rendered) apply(openTag, closeTag string, escape func(string) string) string {
	var b strings.Builder
	pos := 0
	for _, span := range r.Italics {
		if span.Start < pos || span.End > len(r.Text) || span.Start >= span.End {
			continue
		}
		b.WriteString(escape(r.Text[pos:span.Start]))
		b.WriteString(openTag)
		b.WriteString(escape(r.Text[span.Start:span.End]))
		b.WriteString(closeTag)
		pos = span.End
	}
	b.WriteString(escape(r.Text[pos:]))
	return b.String()
}

// writer accumulates rendered text and italic ranges.
type writer struct {
	b       strings.Builder
	italics []citation.Span
}

func (w *writer) text(parts ...string) {
	for _, p := range parts {
		w.b.WriteString(p)
	}
}

func (w *writer) italic(s string) {
	if s == "" {
		return
	}
	start := w.b.Len()
	w.b.WriteString(s)
	w.italics = append(w.italics, citation.Span{Start: start, End: w.b.Len()})
}

func (w *writer) rendered() Rendered {
	return Rendered{Text: w.b.String(), Italics: w.italics}
}
