package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coolbeans/lexcite/pkg/citation"
	"github.com/coolbeans/lexcite/pkg/reporter"
)

// ReferenceCheck flags abbreviations missing from the reference table:
// reporters, courts, codes, rule bodies, journals, and constitution
// jurisdictions. Formatting proceeds with the raw abbreviation.
type ReferenceCheck struct {
	table *reporter.Table
}

// NewReferenceCheck creates a reference check over table.
func NewReferenceCheck(table *reporter.Table) *ReferenceCheck {
	return &ReferenceCheck{table: table}
}

// Name returns "references".
func (rc *ReferenceCheck) Name() string { return "references" }

// Run attaches UnknownReporter warnings.
func (rc *ReferenceCheck) Run(c *citation.Citation, config *Config) {
	unknown := func(component, kind, abbrev string) {
		warnOnce(c, citation.IssueUnknownReporter, component,
			fmt.Sprintf("%s %q is not in the reference table", kind, abbrev), config.UnknownPenalty)
	}

	switch comp := c.Components.(type) {
	case *citation.CaseComponents:
		if comp.Reporter != "" {
			if _, ok := rc.table.Reporter(comp.Reporter); !ok {
				unknown("reporter_abbrev", "reporter", comp.Reporter)
			}
		}
		if comp.Court != "" && !rc.knownCourt(comp) {
			unknown("court", "court", comp.Court)
		}
	case *citation.StatuteComponents:
		if _, ok := rc.table.Code(comp.Code); !ok {
			unknown("code_abbrev", "code", comp.Code)
		}
	case *citation.ConstitutionComponents:
		if _, ok := rc.table.Constitution(comp.Jurisdiction); !ok {
			unknown("jurisdiction", "jurisdiction", comp.Jurisdiction)
		}
	case *citation.RuleComponents:
		if comp.Body != "" {
			if _, ok := rc.table.RuleBody(comp.Body); !ok {
				unknown("body", "rule body", comp.Body)
			}
		}
	case *citation.SecondaryComponents:
		if comp.Journal != "" {
			if _, ok := rc.table.Journal(comp.Journal); !ok {
				unknown("journal", "journal", comp.Journal)
			}
		}
	case nil:
	default:
		panic(fmt.Sprintf("validate: unhandled components %T", c.Components))
	}
}

// knownCourt accepts courts in the court table and courts implied by a known
// reporter.
func (rc *ReferenceCheck) knownCourt(comp *citation.CaseComponents) bool {
	if _, ok := rc.table.Court(comp.Court); ok {
		return true
	}
	if entry, ok := rc.table.Reporter(comp.Reporter); ok {
		return reporter.Key(entry.Court) == reporter.Key(comp.Court)
	}
	return false
}

// YearCheck flags years outside the configured plausible range.
type YearCheck struct{}

// NewYearCheck creates a year check.
func NewYearCheck() *YearCheck { return &YearCheck{} }

// Name returns "year".
func (yc *YearCheck) Name() string { return "year" }

// Run attaches ImplausibleYear warnings.
func (yc *YearCheck) Run(c *citation.Citation, config *Config) {
	year, component := citationYear(c.Components)
	if year == "" {
		return
	}
	n, err := strconv.Atoi(year)
	if len(year) != 4 || err != nil {
		c.AddWarning(citation.IssueImplausibleYear, component, fmt.Sprintf("year %q is not a four-digit year", year))
		return
	}
	if n < config.MinYear || n > config.MaxYear {
		c.AddWarning(citation.IssueImplausibleYear, component,
			fmt.Sprintf("year %d is outside %d-%d", n, config.MinYear, config.MaxYear))
	}
}

// citationYear returns the year to check and the component that holds it.
// A statute's year_or_edition contributes its trailing numeric token only,
// so "West 2020" checks 2020 and "2d ed." checks nothing.
func citationYear(components citation.Components) (string, string) {
	switch comp := components.(type) {
	case *citation.CaseComponents:
		return comp.Year, "year"
	case *citation.SecondaryComponents:
		return comp.Year, "year"
	case *citation.StatuteComponents:
		fields := strings.Fields(comp.Year)
		if len(fields) == 0 {
			return "", ""
		}
		last := fields[len(fields)-1]
		if _, err := strconv.Atoi(last); err != nil {
			return "", ""
		}
		return last, "year_or_edition"
	}
	return "", ""
}

// CompletenessCheck flags full case citations that name neither a first
// page nor a pincite. Such citations cannot be formatted.
type CompletenessCheck struct{}

// NewCompletenessCheck creates a completeness check.
func NewCompletenessCheck() *CompletenessCheck { return &CompletenessCheck{} }

// Name returns "completeness".
func (cc *CompletenessCheck) Name() string { return "completeness" }

// Run attaches IncompleteCaseCitation errors.
func (cc *CompletenessCheck) Run(c *citation.Citation, _ *Config) {
	if c.Form != citation.FormFull {
		return
	}
	comp, ok := c.Components.(*citation.CaseComponents)
	if !ok {
		return
	}
	if comp.FirstPage == "" && comp.Pincite == "" {
		c.AddError(citation.IssueIncompleteCaseCitation, "first_page",
			"case citation has neither a first page nor a pincite")
	}
}
