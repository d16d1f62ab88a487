package config

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/coolbeans/lexcite/pkg/engine"
	"github.com/coolbeans/lexcite/pkg/reporter"
)

// NewStore builds the reference table store. Without a tables directory it
// serves the built-in tables; with Watch set it starts watching the
// directory and the caller owns StopWatch.
func (c *Config) NewStore(logger *slog.Logger) (*reporter.Store, error) {
	if c.Tables.Dir == "" {
		return reporter.NewStore(nil, logger), nil
	}
	store, err := reporter.NewStoreFromDirectory(c.Tables.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("loading reference tables: %w", err)
	}
	if c.Tables.Watch {
		if err := store.Watch(); err != nil {
			return nil, fmt.Errorf("watching reference tables: %w", err)
		}
	}
	return store, nil
}

// NewEngine builds an engine from the configuration. A nil registerer
// disables metrics.
func (c *Config) NewEngine(logger *slog.Logger, reg prometheus.Registerer) (*engine.Engine, error) {
	store, err := c.NewStore(logger)
	if err != nil {
		return nil, err
	}

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithStore(store),
		engine.WithStyle(c.CitationStyle()),
		engine.WithScope(c.Scope()),
		engine.WithValidationConfig(c.ValidatorConfig()),
		engine.WithPassimThreshold(c.TOA.PassimThreshold),
	}
	if c.Workers > 0 {
		opts = append(opts, engine.WithWorkers(c.Workers))
	}
	if reg != nil {
		opts = append(opts, engine.WithMetrics(reg))
	}
	return engine.New(opts...)
}
