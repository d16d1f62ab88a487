// Package validate checks parsed citations for structural plausibility. It
// never verifies that an authority exists and never removes a citation; it
// only attaches warnings and errors for downstream consumers to surface.
package validate

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/coolbeans/lexcite/pkg/citation"
	"github.com/coolbeans/lexcite/pkg/reporter"
)

// Check is one validation rule applied to each citation.
type Check interface {
	// Name returns the unique identifier for this check (e.g., "references").
	Name() string

	// Run inspects the citation and attaches any findings to it. Running a
	// check twice must leave the citation as running it once did.
	Run(c *citation.Citation, config *Config)
}

// Config holds user-configurable settings for validation.
type Config struct {
	// MinYear and MaxYear bound plausible years, inclusive.
	MinYear int
	MaxYear int

	// UnknownPenalty multiplies confidence when an abbreviation is not in the
	// reference table.
	UnknownPenalty float64

	// SkipChecks lists check names to skip entirely.
	SkipChecks []string
}

// DefaultConfig returns the standard plausible range: 1700 through next year.
func DefaultConfig() *Config {
	return &Config{
		MinYear:        1700,
		MaxYear:        time.Now().Year() + 1,
		UnknownPenalty: 0.9,
		SkipChecks:     make([]string, 0),
	}
}

// Validator runs registered checks in order.
type Validator struct {
	checks []Check
	config *Config
}

// NewValidator creates a validator with the default checks over table. A nil
// config selects DefaultConfig; a nil table selects the built-in tables.
func NewValidator(table *reporter.Table, config *Config) *Validator {
	if config == nil {
		config = DefaultConfig()
	}
	if table == nil {
		table = reporter.Default()
	}
	v := &Validator{config: config}
	v.RegisterCheck(NewReferenceCheck(table))
	v.RegisterCheck(NewYearCheck())
	v.RegisterCheck(NewCompletenessCheck())
	return v
}

// RegisterCheck adds a check. Checks run in registration order.
func (v *Validator) RegisterCheck(check Check) {
	v.checks = append(v.checks, check)
}

// Config returns the validator's configuration.
func (v *Validator) Config() *Config { return v.config }

// Validate runs every check against c. It is safe to call repeatedly.
func (v *Validator) Validate(c *citation.Citation) {
	if c == nil {
		return
	}
	for _, check := range v.checks {
		if v.isCheckSkipped(check.Name()) {
			continue
		}
		check.Run(c, v.config)
	}
}

// ValidateAll validates every citation in place and summarizes the findings.
func (v *Validator) ValidateAll(citations []*citation.Citation) *Report {
	report := &Report{
		Warnings: make(map[citation.IssueCode]int),
		Errors:   make(map[citation.IssueCode]int),
	}
	for _, c := range citations {
		v.Validate(c)
		report.Add(c)
	}
	return report
}

func (v *Validator) isCheckSkipped(name string) bool {
	for _, skip := range v.config.SkipChecks {
		if strings.EqualFold(skip, name) {
			return true
		}
	}
	return false
}

// warnOnce attaches a warning and applies the penalty only the first time
// the same warning appears on a citation.
func warnOnce(c *citation.Citation, code citation.IssueCode, component, message string, penalty float64) {
	before := len(c.Warnings)
	c.AddWarning(code, component, message)
	if len(c.Warnings) > before && penalty > 0 {
		c.Confidence *= penalty
	}
}

// Report aggregates validation findings across a citation sequence.
type Report struct {
	Checked  int                        `json:"checked"`
	Clean    int                        `json:"clean"`
	Flagged  int                        `json:"flagged"`
	Warnings map[citation.IssueCode]int `json:"warnings"`
	Errors   map[citation.IssueCode]int `json:"errors"`
}

// Add counts the findings already attached to c.
func (r *Report) Add(c *citation.Citation) {
	r.Checked++
	if len(c.Warnings) == 0 && len(c.Errors) == 0 {
		r.Clean++
	} else {
		r.Flagged++
	}
	for _, issue := range c.Warnings {
		r.Warnings[issue.Code]++
	}
	for _, issue := range c.Errors {
		r.Errors[issue.Code]++
	}
}

// ToJSON serializes the report as indented JSON.
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// String returns a human-readable report.
func (r *Report) String() string {
	var b strings.Builder
	b.WriteString("Citation Validation Report\n")
	b.WriteString("==========================\n\n")
	b.WriteString(fmt.Sprintf("Checked: %d (%d clean, %d flagged)\n", r.Checked, r.Clean, r.Flagged))
	for _, code := range sortedCodes(r.Errors) {
		b.WriteString(fmt.Sprintf("  ERROR [%s]: %d\n", code, r.Errors[code]))
	}
	for _, code := range sortedCodes(r.Warnings) {
		b.WriteString(fmt.Sprintf("  WARNING [%s]: %d\n", code, r.Warnings[code]))
	}
	return b.String()
}

func sortedCodes(counts map[citation.IssueCode]int) []citation.IssueCode {
	codes := make([]citation.IssueCode, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
