// Package engine wires the citation pipeline together: extraction,
// validation, formatting, short-form resolution, and the table of
// authorities. An Engine is safe for concurrent use; documents never share
// state.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/coolbeans/lexcite/pkg/citation"
	"github.com/coolbeans/lexcite/pkg/format"
	"github.com/coolbeans/lexcite/pkg/reporter"
	"github.com/coolbeans/lexcite/pkg/shortform"
	"github.com/coolbeans/lexcite/pkg/toa"
	"github.com/coolbeans/lexcite/pkg/validate"
)

// Engine runs the citation pipeline.
type Engine struct {
	store      *reporter.Store
	style      format.Style
	scope      shortform.Scope
	passim     int
	workers    int
	validation *validate.Config
	validator  *validate.Validator
	logger     *slog.Logger
	registerer prometheus.Registerer
	metrics    *Metrics

	current atomic.Pointer[pipeline]
}

// Option configures an Engine.
type Option func(*Engine)

// WithTable serves a fixed reference table.
func WithTable(table *reporter.Table) Option {
	return func(e *Engine) {
		e.store = reporter.NewStore(table, e.logger)
	}
}

// WithStore serves the table held by store, picking up reloads.
func WithStore(store *reporter.Store) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithStyle sets the default citation style.
func WithStyle(style format.Style) Option {
	return func(e *Engine) {
		e.style = style
	}
}

// WithScope sets how far back "id." may reach.
func WithScope(scope shortform.Scope) Option {
	return func(e *Engine) {
		e.scope = scope
	}
}

// WithValidator uses v for every document instead of a validator built from
// the current reference table.
func WithValidator(v *validate.Validator) Option {
	return func(e *Engine) {
		e.validator = v
	}
}

// WithValidationConfig sets the configuration of the default validator.
func WithValidationConfig(config *validate.Config) Option {
	return func(e *Engine) {
		e.validation = config
	}
}

// WithPassimThreshold sets the distinct page count at which the table of
// authorities prints "passim". Zero disables it.
func WithPassimThreshold(n int) Option {
	return func(e *Engine) {
		e.passim = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics registers pipeline metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(e *Engine) {
		e.registerer = reg
	}
}

// WithWorkers caps the documents ProcessBatch processes at once.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// New creates an engine. Without options it uses the built-in reference
// table, Bluebook style, and document-wide "id." scope.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		style:   format.StyleBluebook,
		scope:   shortform.ScopeDocument,
		passim:  toa.DefaultPassimThreshold,
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", e.workers)
	}
	if e.passim < 0 {
		return nil, errors.New("passim threshold must not be negative")
	}
	if e.store == nil {
		e.store = reporter.NewStore(nil, e.logger)
	}
	if e.registerer != nil {
		metrics, err := NewMetrics(e.registerer)
		if err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
		e.metrics = metrics
	}
	return e, nil
}

// Style returns the default style.
func (e *Engine) Style() format.Style { return e.style }

// Store returns the reference table store.
func (e *Engine) Store() *reporter.Store { return e.store }

// Table returns the reference table currently in service.
func (e *Engine) Table() *reporter.Table { return e.store.Table() }

// pipeline bundles the table-derived stages so that one document sees one
// table even if the store reloads mid-document.
type pipeline struct {
	table     *reporter.Table
	parser    *citation.Parser
	formatter *format.Formatter
	validator *validate.Validator
}

func (e *Engine) pipeline() *pipeline {
	table := e.store.Table()
	if p := e.current.Load(); p != nil && p.table == table {
		return p
	}
	p := &pipeline{
		table:     table,
		parser:    citation.NewParser(table),
		formatter: format.New(table),
		validator: e.validator,
	}
	if p.validator == nil {
		p.validator = validate.NewValidator(table, e.validation)
	}
	e.current.Store(p)
	return p
}

// ExtractCitations recognizes, validates, and formats every citation in
// text in the default style.
func (e *Engine) ExtractCitations(text string) []*citation.Citation {
	citations, _ := e.extract(e.pipeline(), text, e.style, nil)
	return citations
}

// FormatCitation renders components in style.
func (e *Engine) FormatCitation(components citation.Components, style format.Style) string {
	return e.pipeline().formatter.Format(components, style)
}

// ResolveShortForms assigns short forms to citations in document order in
// the default style. The input is not modified.
func (e *Engine) ResolveShortForms(citations []*citation.Citation) []*citation.Citation {
	return e.resolver(e.pipeline(), e.style).Resolve(citations)
}

// BuildTableOfAuthorities builds the table of authorities for citations in
// document order. Short forms are bound to their authorities first, so the
// output of ExtractCitations can be passed directly.
func (e *Engine) BuildTableOfAuthorities(citations []*citation.Citation) *toa.Table {
	p := e.pipeline()
	return e.builder(p, e.style).Build(e.resolver(p, e.style).Resolve(citations))
}

func (e *Engine) resolver(p *pipeline, style format.Style) *shortform.Resolver {
	return shortform.NewResolver(p.table, style, e.scope)
}

func (e *Engine) builder(p *pipeline, style format.Style) *toa.Builder {
	b := toa.NewBuilder(p.table, style)
	b.PassimThreshold = e.passim
	return b
}
