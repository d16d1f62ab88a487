package engine

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/coolbeans/lexcite/pkg/citation"
	"github.com/coolbeans/lexcite/pkg/format"
	"github.com/coolbeans/lexcite/pkg/toa"
	"github.com/coolbeans/lexcite/pkg/validate"
)

// citationNamespace seeds deterministic citation IDs.
var citationNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:lexcite:citation"))

// Document is one input to Process.
type Document struct {
	Text string `json:"text"`

	// Style overrides the engine's default style when set.
	Style *format.Style `json:"style,omitempty"`

	// Hints are citations previously confirmed by a user or provider. An
	// extracted citation with the same span and raw text takes the hint's
	// components.
	Hints []*citation.Citation `json:"existing_citations_hint,omitempty"`
}

// Result is the outcome of processing one document.
type Result struct {
	Citations []*citation.Citation `json:"citations"`
	Table     *toa.Table           `json:"table_of_authorities"`
	Report    *validate.Report     `json:"report"`
}

// Process runs the full pipeline over one document: extraction, validation,
// formatting, short-form resolution, and the table of authorities.
func (e *Engine) Process(doc Document) *Result {
	start := time.Now()
	style := e.style
	if doc.Style != nil {
		style = *doc.Style
	}

	p := e.pipeline()
	extracted, report := e.extract(p, doc.Text, style, doc.Hints)
	resolved := e.resolver(p, style).Resolve(extracted)
	table := e.builder(p, style).Build(resolved)

	elapsed := time.Since(start)
	if e.metrics != nil {
		e.metrics.observeDocument(resolved, elapsed)
	}
	e.logger.Debug("Processed document",
		slog.Int("bytes", len(doc.Text)),
		slog.Int("citations", len(resolved)),
		slog.Int("flagged", report.Flagged),
		slog.Int("authorities", table.Entries()),
		slog.String("style", style.String()),
		slog.Duration("elapsed", elapsed))

	return &Result{Citations: resolved, Table: table, Report: report}
}

// ProcessBatch processes independent documents in parallel, at most the
// configured worker count at a time. Results are in input order. When ctx is
// cancelled no further documents are started and ctx.Err() is returned.
func (e *Engine) ProcessBatch(ctx context.Context, docs []Document) ([]*Result, error) {
	results := make([]*Result, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, doc := range docs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.Process(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// extract parses text and annotates each citation with its ID, page,
// segment, validation findings, and canonical form.
func (e *Engine) extract(p *pipeline, text string, style format.Style, hints []*citation.Citation) ([]*citation.Citation, *validate.Report) {
	citations := p.parser.ParseAll(text)
	layout := newLayout(text)
	for _, c := range citations {
		c.ID = citationID(c)
		c.Page = layout.page(c.Span.Start)
		c.Segment = layout.segment(c.Span.Start)
	}
	applyHints(citations, hints)

	report := p.validator.ValidateAll(citations)
	for _, c := range citations {
		if c.Form != citation.FormFull {
			continue
		}
		rendered := p.formatter.RenderCitation(c, style)
		c.CanonicalForm = rendered.Text
		c.Emphasis = rendered.Italics
	}
	if e.metrics != nil {
		e.metrics.observeCitations(citations)
	}
	return citations, report
}

// citationID hashes the offset and raw text, so an unchanged citation at the
// same place keeps its ID across re-parses.
func citationID(c *citation.Citation) string {
	name := strconv.Itoa(c.Span.Start) + ":" + c.RawText
	return uuid.NewSHA1(citationNamespace, []byte(name)).String()
}

// applyHints replaces the components of citations matching a hint by span
// and raw text.
func applyHints(citations []*citation.Citation, hints []*citation.Citation) {
	if len(hints) == 0 {
		return
	}
	bySpan := make(map[citation.Span]*citation.Citation, len(hints))
	for _, h := range hints {
		if h != nil && h.Components != nil {
			bySpan[h.Span] = h
		}
	}
	for _, c := range citations {
		h, ok := bySpan[c.Span]
		if !ok || h.RawText != c.RawText || h.Kind() != c.Kind() {
			continue
		}
		c.Components = h.Components.Clone()
		c.Confidence = 1
		c.Warnings = nil
		if c.Form == citation.FormFull {
			c.AuthorityKey = citation.AuthorityKey(c.Components)
		}
	}
}

// segmentBreak is a blank line: a newline followed by optional whitespace
// and another newline.
var segmentBreak = regexp.MustCompile(`\n(?:[ \t\r\f]*\n)+`)

// layout maps byte offsets to 1-based pages, counted by form feeds, and
// 0-based segments, separated by blank lines.
type layout struct {
	pageBreaks    []int
	segmentBreaks []int
}

func newLayout(text string) *layout {
	l := &layout{}
	for i := 0; i < len(text); i++ {
		if text[i] == '\f' {
			l.pageBreaks = append(l.pageBreaks, i)
		}
	}
	for _, loc := range segmentBreak.FindAllStringIndex(text, -1) {
		l.segmentBreaks = append(l.segmentBreaks, loc[1])
	}
	return l
}

func (l *layout) page(offset int) int {
	return sort.SearchInts(l.pageBreaks, offset) + 1
}

func (l *layout) segment(offset int) int {
	return sort.SearchInts(l.segmentBreaks, offset+1)
}
