package reporter

import (
	"fmt"
	"sort"
	"strings"
)

// Builder assembles a Table. A Builder is not safe for concurrent use; the
// Table it produces is.
type Builder struct {
	reporters     []*ReporterEntry
	courts        []*CourtEntry
	codes         []*CodeEntry
	ruleBodies    []*RuleBodyEntry
	journals      []*JournalEntry
	constitutions []*ConstitutionEntry
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// From seeds the builder with every entry of an existing table.
func (b *Builder) From(t *Table) *Builder {
	if t == nil {
		return b
	}
	for _, e := range t.Reporters() {
		b.AddReporter(*e)
	}
	for _, e := range t.Courts() {
		b.AddCourt(*e)
	}
	for _, e := range t.Codes() {
		b.AddCode(*e)
	}
	for _, e := range t.RuleBodies() {
		b.AddRuleBody(*e)
	}
	for _, e := range t.Journals() {
		b.AddJournal(*e)
	}
	for _, e := range t.Constitutions() {
		b.AddConstitution(*e)
	}
	return b
}

// AddReporter adds or replaces a reporter entry.
func (b *Builder) AddReporter(e ReporterEntry) *Builder {
	b.reporters = append(b.reporters, &e)
	return b
}

// AddCourt adds or replaces a court entry.
func (b *Builder) AddCourt(e CourtEntry) *Builder {
	b.courts = append(b.courts, &e)
	return b
}

// AddCode adds or replaces a code entry.
func (b *Builder) AddCode(e CodeEntry) *Builder {
	b.codes = append(b.codes, &e)
	return b
}

// AddRuleBody adds or replaces a rule body entry.
func (b *Builder) AddRuleBody(e RuleBodyEntry) *Builder {
	b.ruleBodies = append(b.ruleBodies, &e)
	return b
}

// AddJournal adds or replaces a journal entry.
func (b *Builder) AddJournal(e JournalEntry) *Builder {
	b.journals = append(b.journals, &e)
	return b
}

// AddConstitution adds or replaces a constitution entry.
func (b *Builder) AddConstitution(e ConstitutionEntry) *Builder {
	b.constitutions = append(b.constitutions, &e)
	return b
}

// Build validates the entries and returns the immutable table. Later entries
// with the same abbreviation replace earlier ones.
func (b *Builder) Build() (*Table, error) {
	t := &Table{
		reporters:     make(map[string]*ReporterEntry),
		courts:        make(map[string]*CourtEntry),
		codes:         make(map[string]*CodeEntry),
		ruleBodies:    make(map[string]*RuleBodyEntry),
		journals:      make(map[string]*JournalEntry),
		constitutions: make(map[string]*ConstitutionEntry),
	}

	for _, e := range b.reporters {
		if err := requireAbbrev("reporter", e.Abbrev); err != nil {
			return nil, err
		}
		index(t.reporters, e, e.Abbrev, e.Variants)
	}
	for _, e := range b.courts {
		if err := requireAbbrev("court", e.Abbrev); err != nil {
			return nil, err
		}
		index(t.courts, e, e.Abbrev, nil)
	}
	for _, e := range b.codes {
		if err := requireAbbrev("code", e.Abbrev); err != nil {
			return nil, err
		}
		index(t.codes, e, e.Abbrev, e.Variants)
	}
	for _, e := range b.ruleBodies {
		if err := requireAbbrev("rule body", e.Abbrev); err != nil {
			return nil, err
		}
		index(t.ruleBodies, e, e.Abbrev, e.Variants)
	}
	for _, e := range b.journals {
		if err := requireAbbrev("journal", e.Abbrev); err != nil {
			return nil, err
		}
		index(t.journals, e, e.Abbrev, e.Variants)
	}
	for _, e := range b.constitutions {
		if err := requireAbbrev("constitution", e.Abbrev); err != nil {
			return nil, err
		}
		index(t.constitutions, e, e.Abbrev, nil)
	}

	t.reporterForms = forms(t.reporters, func(e *ReporterEntry) []string { return append([]string{e.Abbrev}, e.Variants...) })
	t.codeForms = forms(t.codes, func(e *CodeEntry) []string { return append([]string{e.Abbrev}, e.Variants...) })
	t.ruleBodyForms = forms(t.ruleBodies, func(e *RuleBodyEntry) []string { return append([]string{e.Abbrev}, e.Variants...) })
	t.journalForms = forms(t.journals, func(e *JournalEntry) []string { return append([]string{e.Abbrev}, e.Variants...) })
	t.constitutionForms = forms(t.constitutions, func(e *ConstitutionEntry) []string { return []string{e.Abbrev} })

	return t, nil
}

func requireAbbrev(kind, abbrev string) error {
	if strings.TrimSpace(abbrev) == "" {
		return fmt.Errorf("%s entry has empty abbreviation", kind)
	}
	return nil
}

// index stores the entry under its abbreviation and variants. A replacement
// drops the previous entry's variants so stale spellings do not linger.
func index[E any](m map[string]*E, entry *E, abbrev string, variants []string) {
	if previous, ok := m[Key(abbrev)]; ok {
		for k, v := range m {
			if v == previous {
				delete(m, k)
			}
		}
	}
	m[Key(abbrev)] = entry
	for _, variant := range variants {
		if strings.TrimSpace(variant) != "" {
			m[Key(variant)] = entry
		}
	}
}

// forms collects the literal spellings of live entries, longest first so a
// regexp alternation built from them prefers "F. Supp. 2d" over "F.".
func forms[E any](m map[string]*E, spellings func(*E) []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, entry := range uniqueEntries(m) {
		for _, s := range spellings(entry) {
			s = strings.TrimSpace(s)
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

func uniqueEntries[E any](m map[string]*E) []*E {
	seen := make(map[*E]bool, len(m))
	var out []*E
	for _, entry := range m {
		if !seen[entry] {
			seen[entry] = true
			out = append(out, entry)
		}
	}
	return out
}
