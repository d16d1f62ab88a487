package engine

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/coolbeans/lexcite/pkg/citation"
)

// Metrics are the pipeline's Prometheus collectors.
type Metrics struct {
	Documents prometheus.Counter
	Citations *prometheus.CounterVec
	Issues    *prometheus.CounterVec
	Duration  prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. Collectors
// already registered by another engine on the same registry are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Documents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lexcite",
			Name:      "documents_processed_total",
			Help:      "Documents run through the full pipeline.",
		}),
		Citations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexcite",
			Name:      "citations_extracted_total",
			Help:      "Citations recognized, by kind.",
		}, []string{"kind"}),
		Issues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexcite",
			Name:      "citation_issues_total",
			Help:      "Warnings and errors attached to citations, by code.",
		}, []string{"code"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lexcite",
			Name:      "document_processing_seconds",
			Help:      "Time to process one document.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
	}

	var err error
	if m.Documents, err = register(reg, m.Documents); err != nil {
		return nil, err
	}
	if m.Citations, err = register(reg, m.Citations); err != nil {
		return nil, err
	}
	if m.Issues, err = register(reg, m.Issues); err != nil {
		return nil, err
	}
	if m.Duration, err = register(reg, m.Duration); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) observeCitations(citations []*citation.Citation) {
	for _, c := range citations {
		m.Citations.WithLabelValues(c.Kind().String()).Inc()
		for _, issue := range c.Warnings {
			m.Issues.WithLabelValues(string(issue.Code)).Inc()
		}
		for _, issue := range c.Errors {
			m.Issues.WithLabelValues(string(issue.Code)).Inc()
		}
	}
}

func (m *Metrics) observeDocument(resolved []*citation.Citation, elapsed time.Duration) {
	m.Documents.Inc()
	m.Duration.Observe(elapsed.Seconds())
	for _, c := range resolved {
		if c.HasIssue(citation.IssueOrphanShortForm) {
			m.Issues.WithLabelValues(string(citation.IssueOrphanShortForm)).Inc()
		}
	}
}
