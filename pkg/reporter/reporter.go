// Package reporter holds the static reference data used to recognize and
// canonicalize legal citations: case reporters, courts, statutory codes, rule
// bodies, constitution jurisdictions, and journals.
//
// A Table is immutable once built. It is safe for concurrent reads without
// locking; overrides produce a new Table rather than mutating an existing one.
package reporter

import (
	"sort"
	"strings"
)

// CourtLevel represents the level of a court in the judicial hierarchy.
type CourtLevel int

const (
	CourtLevelUnknown CourtLevel = iota
	CourtLevelTrial
	CourtLevelSpecialized
	CourtLevelIntermediateAppellate
	CourtLevelHighestAppellate
)

func (c CourtLevel) String() string {
	names := []string{"Unknown", "Trial", "Specialized", "Intermediate Appellate", "Highest Appellate"}
	if int(c) >= 0 && int(c) < len(names) {
		return names[c]
	}
	return "Unknown"
}

// ParseCourtLevel converts the YAML spelling of a court level.
func ParseCourtLevel(s string) CourtLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trial":
		return CourtLevelTrial
	case "specialized":
		return CourtLevelSpecialized
	case "intermediate", "intermediate_appellate", "appellate":
		return CourtLevelIntermediateAppellate
	case "highest", "highest_appellate", "supreme":
		return CourtLevelHighestAppellate
	default:
		return CourtLevelUnknown
	}
}

// ReporterEntry describes a case reporter series.
type ReporterEntry struct {
	Abbrev       string     `yaml:"abbrev" json:"abbrev"`
	Name         string     `yaml:"name" json:"name"`
	Court        string     `yaml:"court,omitempty" json:"court,omitempty"`
	CourtImplied bool       `yaml:"court_implied,omitempty" json:"court_implied,omitempty"`
	Jurisdiction string     `yaml:"jurisdiction" json:"jurisdiction"`
	Level        CourtLevel `yaml:"-" json:"level"`
	Variants     []string   `yaml:"variants,omitempty" json:"variants,omitempty"`
}

// CourtEntry describes a court abbreviation used in case parentheticals.
type CourtEntry struct {
	Abbrev       string     `yaml:"abbrev" json:"abbrev"`
	Name         string     `yaml:"name" json:"name"`
	Jurisdiction string     `yaml:"jurisdiction" json:"jurisdiction"`
	Level        CourtLevel `yaml:"-" json:"level"`
}

// CodeEntry describes a statutory or regulatory code.
type CodeEntry struct {
	Abbrev        string   `yaml:"abbrev" json:"abbrev"`
	Name          string   `yaml:"name" json:"name"`
	Jurisdiction  string   `yaml:"jurisdiction" json:"jurisdiction"`
	TitleRequired bool     `yaml:"title_required,omitempty" json:"title_required,omitempty"`
	Variants      []string `yaml:"variants,omitempty" json:"variants,omitempty"`
}

// RuleBodyEntry describes a set of court rules.
type RuleBodyEntry struct {
	Abbrev       string   `yaml:"abbrev" json:"abbrev"`
	Name         string   `yaml:"name" json:"name"`
	Jurisdiction string   `yaml:"jurisdiction" json:"jurisdiction"`
	UsesNo       bool     `yaml:"uses_no,omitempty" json:"uses_no,omitempty"`
	Variants     []string `yaml:"variants,omitempty" json:"variants,omitempty"`
}

// JournalEntry describes a periodical cited as secondary authority.
type JournalEntry struct {
	Abbrev   string   `yaml:"abbrev" json:"abbrev"`
	Name     string   `yaml:"name" json:"name"`
	Variants []string `yaml:"variants,omitempty" json:"variants,omitempty"`
}

// ConstitutionEntry describes a jurisdiction whose constitution may be cited.
type ConstitutionEntry struct {
	Abbrev   string `yaml:"abbrev" json:"abbrev"`
	Name     string `yaml:"name" json:"name"`
	Federal  bool   `yaml:"federal,omitempty" json:"federal,omitempty"`
	Priority int    `yaml:"priority,omitempty" json:"priority,omitempty"`
}

// Table is an immutable set of reference lookups.
type Table struct {
	reporters     map[string]*ReporterEntry
	courts        map[string]*CourtEntry
	codes         map[string]*CodeEntry
	ruleBodies    map[string]*RuleBodyEntry
	journals      map[string]*JournalEntry
	constitutions map[string]*ConstitutionEntry

	reporterForms     []string
	codeForms         []string
	ruleBodyForms     []string
	journalForms      []string
	constitutionForms []string
}

// Key normalizes an abbreviation for lookup: spaces are dropped and the
// comparison is case-insensitive, so "Pa. C.S." and "Pa.C.S." are the same.
func Key(abbrev string) string {
	var b strings.Builder
	for _, r := range abbrev {
		switch r {
		case ' ', '\t', '\n', '\u00a0':
			continue
		case '’', '‘':
			r = '\''
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// Reporter looks up a reporter by abbreviation or variant.
func (t *Table) Reporter(abbrev string) (*ReporterEntry, bool) {
	entry, ok := t.reporters[Key(abbrev)]
	return entry, ok
}

// Court looks up a court abbreviation.
func (t *Table) Court(abbrev string) (*CourtEntry, bool) {
	entry, ok := t.courts[Key(abbrev)]
	return entry, ok
}

// Code looks up a statutory code abbreviation.
func (t *Table) Code(abbrev string) (*CodeEntry, bool) {
	entry, ok := t.codes[Key(abbrev)]
	return entry, ok
}

// RuleBody looks up a rule body abbreviation.
func (t *Table) RuleBody(abbrev string) (*RuleBodyEntry, bool) {
	entry, ok := t.ruleBodies[Key(abbrev)]
	return entry, ok
}

// Journal looks up a journal abbreviation.
func (t *Table) Journal(abbrev string) (*JournalEntry, bool) {
	entry, ok := t.journals[Key(abbrev)]
	return entry, ok
}

// Constitution looks up a constitution jurisdiction abbreviation.
func (t *Table) Constitution(abbrev string) (*ConstitutionEntry, bool) {
	entry, ok := t.constitutions[Key(abbrev)]
	return entry, ok
}

// ReporterForms returns every reporter spelling, longest first.
func (t *Table) ReporterForms() []string { return append([]string(nil), t.reporterForms...) }

// CodeForms returns every code spelling, longest first.
func (t *Table) CodeForms() []string { return append([]string(nil), t.codeForms...) }

// RuleBodyForms returns every rule body spelling, longest first.
func (t *Table) RuleBodyForms() []string { return append([]string(nil), t.ruleBodyForms...) }

// JournalForms returns every journal spelling, longest first.
func (t *Table) JournalForms() []string { return append([]string(nil), t.journalForms...) }

// ConstitutionForms returns every constitution jurisdiction spelling, longest first.
func (t *Table) ConstitutionForms() []string {
	return append([]string(nil), t.constitutionForms...)
}

// Reporters returns all reporter entries sorted by abbreviation.
func (t *Table) Reporters() []*ReporterEntry {
	return uniqueSorted(t.reporters, func(e *ReporterEntry) string { return e.Abbrev })
}

// Codes returns all code entries sorted by abbreviation.
func (t *Table) Codes() []*CodeEntry {
	return uniqueSorted(t.codes, func(e *CodeEntry) string { return e.Abbrev })
}

// RuleBodies returns all rule body entries sorted by abbreviation.
func (t *Table) RuleBodies() []*RuleBodyEntry {
	return uniqueSorted(t.ruleBodies, func(e *RuleBodyEntry) string { return e.Abbrev })
}

// Courts returns all court entries sorted by abbreviation.
func (t *Table) Courts() []*CourtEntry {
	return uniqueSorted(t.courts, func(e *CourtEntry) string { return e.Abbrev })
}

// Journals returns all journal entries sorted by abbreviation.
func (t *Table) Journals() []*JournalEntry {
	return uniqueSorted(t.journals, func(e *JournalEntry) string { return e.Abbrev })
}

// Constitutions returns all constitution entries sorted by abbreviation.
func (t *Table) Constitutions() []*ConstitutionEntry {
	return uniqueSorted(t.constitutions, func(e *ConstitutionEntry) string { return e.Abbrev })
}

func uniqueSorted[E any](index map[string]*E, abbrev func(*E) string) []*E {
	seen := make(map[*E]bool, len(index))
	entries := make([]*E, 0, len(index))
	for _, entry := range index {
		if seen[entry] {
			continue
		}
		seen[entry] = true
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return abbrev(entries[i]) < abbrev(entries[j])
	})
	return entries
}
