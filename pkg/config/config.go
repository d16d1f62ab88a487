// Package config provides configuration loading for lexcite.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coolbeans/lexcite/pkg/format"
	"github.com/coolbeans/lexcite/pkg/shortform"
	"github.com/coolbeans/lexcite/pkg/toa"
	"github.com/coolbeans/lexcite/pkg/validate"
)

// Config represents the complete lexcite configuration
type Config struct {
	Style      string           `yaml:"style"`
	ShortForm  ShortFormConfig  `yaml:"short_form"`
	Validation ValidationConfig `yaml:"validation"`
	TOA        TOAConfig        `yaml:"toa"`
	Tables     TablesConfig     `yaml:"tables"`
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`

	// Workers caps parallel documents in batch mode (0 = one per CPU)
	Workers int `yaml:"workers"`
}

// ShortFormConfig configures short-form resolution
type ShortFormConfig struct {
	// Scope is "document" or "segment"
	Scope string `yaml:"scope"`
}

// ValidationConfig configures plausibility checks
type ValidationConfig struct {
	MinYear int `yaml:"min_year"`
	// MaxYearAhead is how many years past the current year are plausible
	MaxYearAhead   int      `yaml:"max_year_ahead"`
	UnknownPenalty float64  `yaml:"unknown_penalty"`
	SkipChecks     []string `yaml:"skip_checks,omitempty"`
}

// TOAConfig configures the table of authorities
type TOAConfig struct {
	// PassimThreshold is the distinct page count that prints "passim" (0 = never)
	PassimThreshold int `yaml:"passim_threshold"`
}

// TablesConfig configures reference table overrides
type TablesConfig struct {
	// Dir holds YAML override files merged onto the built-in tables
	Dir string `yaml:"dir"`
	// Watch reloads the tables when files in Dir change
	Watch bool `yaml:"watch"`
}

// ServerConfig configures the HTTP adapter
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig configures the process logger
type LoggingConfig struct {
	// Level is debug, info, warn, or error
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Style:     format.StyleBluebook.String(),
		ShortForm: ShortFormConfig{Scope: shortform.ScopeDocument.String()},
		Validation: ValidationConfig{
			MinYear:        1700,
			MaxYearAhead:   1,
			UnknownPenalty: 0.9,
		},
		TOA:    TOAConfig{PassimThreshold: toa.DefaultPassimThreshold},
		Server: ServerConfig{Addr: ":8080", ShutdownTimeout: 10 * time.Second},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, err := format.ParseStyle(c.Style); err != nil {
		return fmt.Errorf("style: %w", err)
	}
	if _, err := shortform.ParseScope(c.ShortForm.Scope); err != nil {
		return fmt.Errorf("short_form.scope: %w", err)
	}
	if c.Validation.MaxYearAhead < 0 {
		return fmt.Errorf("validation.max_year_ahead must not be negative")
	}
	if c.Validation.MinYear > time.Now().Year()+c.Validation.MaxYearAhead {
		return fmt.Errorf("validation.min_year %d is in the future", c.Validation.MinYear)
	}
	if c.Validation.UnknownPenalty <= 0 || c.Validation.UnknownPenalty > 1 {
		return fmt.Errorf("validation.unknown_penalty must be in (0, 1]")
	}
	if c.TOA.PassimThreshold < 0 {
		return fmt.Errorf("toa.passim_threshold must not be negative")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// CitationStyle returns the configured style.
func (c *Config) CitationStyle() format.Style {
	style, _ := format.ParseStyle(c.Style)
	return style
}

// Scope returns the configured short-form scope.
func (c *Config) Scope() shortform.Scope {
	scope, _ := shortform.ParseScope(c.ShortForm.Scope)
	return scope
}

// ValidatorConfig converts the validation settings.
func (c *Config) ValidatorConfig() *validate.Config {
	config := validate.DefaultConfig()
	config.MinYear = c.Validation.MinYear
	config.MaxYear = time.Now().Year() + c.Validation.MaxYearAhead
	config.UnknownPenalty = c.Validation.UnknownPenalty
	config.SkipChecks = append(config.SkipChecks, c.Validation.SkipChecks...)
	return config
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Logging.Level)
	return level
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}

// LoadFromFile loads configuration from a YAML file over the defaults
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := loadInto(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

// loadInto decodes the YAML file at path onto config. Keys absent from the
// file keep their current values.
func loadInto(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
