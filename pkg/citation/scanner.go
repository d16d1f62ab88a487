package citation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/coolbeans/lexcite/pkg/reporter"
)

// Rule is one production of the citation grammar: a pattern tagged with the
// kind and form of citation it recognizes. A rule's priority is its position
// in the scanner's rule list; lower is more specific.
type Rule struct {
	Name string
	Kind Kind
	Form Form

	pattern  *regexp.Regexp
	anchored *regexp.Regexp

	// accept rejects matches the pattern language cannot rule out, such as a
	// reporter that is really a statutory code.
	accept func(s *Scanner, buf *matchBuffer, loc []int, g groups) bool

	// parse fills a citation from the rule's named groups.
	parse func(p *Parser, g groups, c *Citation)

	priority int
}

// NewRule compiles a rule from a pattern. Rules built this way carry no
// component parser; they are used for grammar extensions and tests.
func NewRule(name string, kind Kind, form Form, pattern string) (*Rule, error) {
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling rule %q: %w", name, err)
	}
	anchored, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("compiling rule %q: %w", name, err)
	}
	return &Rule{Name: name, Kind: kind, Form: form, pattern: compiled, anchored: anchored}, nil
}

func mustRule(name string, kind Kind, form Form, pattern string) *Rule {
	rule, err := NewRule(name, kind, form, pattern)
	if err != nil {
		panic(err)
	}
	return rule
}

// Priority returns the rule's position in its scanner.
func (r *Rule) Priority() int { return r.priority }

// groups holds the named submatches of one match.
type groups map[string]string

func (g groups) get(name string) string { return strings.TrimSpace(g[name]) }

func namedGroups(re *regexp.Regexp, match []string) groups {
	g := make(groups)
	for i, name := range re.SubexpNames() {
		if name != "" && i < len(match) && match[i] != "" {
			g[name] = match[i]
		}
	}
	return g
}

// Candidate is a span of source text that one rule recognized.
type Candidate struct {
	Span Span
	Kind Kind
	Form Form
	Rule *Rule

	// text is the normalized matched text the parser re-reads.
	text          string
	bufStart      int
	sentenceStart bool
}

// Text returns the normalized text of the candidate.
func (c Candidate) Text() string { return c.text }

// Scanner slices text into ordered, non-overlapping citation candidates.
// It is safe for concurrent use.
type Scanner struct {
	table *reporter.Table
	rules []*Rule
}

// NewScanner builds the standard grammar over the reference table.
func NewScanner(table *reporter.Table) *Scanner {
	if table == nil {
		table = reporter.Default()
	}
	return NewScannerWithRules(table, standardRules(table))
}

// NewScannerWithRules builds a scanner over an explicit rule list, most
// specific first.
func NewScannerWithRules(table *reporter.Table, rules []*Rule) *Scanner {
	if table == nil {
		table = reporter.Default()
	}
	ordered := make([]*Rule, len(rules))
	for i, rule := range rules {
		clone := *rule
		clone.priority = i
		ordered[i] = &clone
	}
	return &Scanner{table: table, rules: ordered}
}

// Rules returns the scanner's rules in priority order.
func (s *Scanner) Rules() []*Rule {
	return append([]*Rule(nil), s.rules...)
}

// Table returns the reference table the grammar was built from.
func (s *Scanner) Table() *reporter.Table { return s.table }

// Scan returns the accepted candidates in source order. Text without
// citations yields an empty slice.
func (s *Scanner) Scan(text string) []Candidate {
	return s.scanBuffer(newMatchBuffer(text))
}

func (s *Scanner) scanBuffer(buf *matchBuffer) []Candidate {
	var all []Candidate
	for _, rule := range s.rules {
		for _, loc := range rule.pattern.FindAllStringSubmatchIndex(buf.text, -1) {
			if loc[0] == loc[1] {
				continue
			}
			start := s.trimLeading(rule, buf, loc[0], loc[1])
			g := namedGroups(rule.anchored, rule.anchored.FindStringSubmatch(buf.text[start:loc[1]]))
			if rule.accept != nil && !rule.accept(s, buf, []int{start, loc[1]}, g) {
				continue
			}
			all = append(all, Candidate{
				Span:          buf.original(start, loc[1]),
				Kind:          rule.Kind,
				Form:          rule.Form,
				Rule:          rule,
				text:          buf.text[start:loc[1]],
				bufStart:      start,
				sentenceStart: buf.sentenceStart(start),
			})
		}
	}
	return resolveOverlaps(all)
}

// resolveOverlaps applies the tie-break: the longest candidate wins an
// overlap; equal lengths go to the higher-priority rule, then the earlier
// start. The survivors are returned in source order.
func resolveOverlaps(candidates []Candidate) []Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Span.Len() != b.Span.Len() {
			return a.Span.Len() > b.Span.Len()
		}
		if a.Rule.priority != b.Rule.priority {
			return a.Rule.priority < b.Rule.priority
		}
		return a.Span.Start < b.Span.Start
	})

	accepted := make([]Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		overlapping := false
		for _, existing := range accepted {
			if candidate.Span.Overlaps(existing.Span) {
				overlapping = true
				break
			}
		}
		if !overlapping {
			accepted = append(accepted, candidate)
		}
	}

	sort.Slice(accepted, func(i, j int) bool {
		return accepted[i].Span.Start < accepted[j].Span.Start
	})
	return accepted
}

// signals are introductory words that a capitalized-name pattern can swallow.
var signals = []string{
	"See, e.g.,", "See also", "See generally", "See", "But see", "But cf.", "Cf.",
	"Accord", "Compare", "Contra", "E.g.,", "Also", "And", "In", "Under", "Citing",
	"Following", "Per", "Unlike", "Like", "Then", "As", "Id.,",
}

// trimLeading drops leading signal words, and for rules whose abbreviation
// fell to a generic pattern, leading words that keep the match valid and
// expose a known abbreviation.
func (s *Scanner) trimLeading(rule *Rule, buf *matchBuffer, start, end int) int {
	for {
		advanced := false
		text := buf.text[start:end]
		for _, signal := range signals {
			if !strings.HasPrefix(text, signal+" ") {
				continue
			}
			// "In re Smith" is a case name, not a signal.
			if signal == "In" && strings.HasPrefix(text, "In re ") {
				continue
			}
			next := start + len(signal) + 1
			if rule.anchored.MatchString(buf.text[next:end]) {
				start = next
				advanced = true
			}
			break
		}
		if !advanced {
			break
		}
	}

	if rule.Kind != KindStatute && rule.Kind != KindConstitution {
		return start
	}
	g := namedGroups(rule.anchored, rule.anchored.FindStringSubmatch(buf.text[start:end]))
	if s.knownLeadAbbrev(rule.Kind, g) {
		return start
	}
	for next := start; next < end; {
		space := strings.IndexByte(buf.text[next:end], ' ')
		if space < 0 {
			break
		}
		next += space + 1
		ng := namedGroups(rule.anchored, rule.anchored.FindStringSubmatch(buf.text[next:end]))
		if len(ng) == 0 {
			break
		}
		if s.knownLeadAbbrev(rule.Kind, ng) {
			return next
		}
	}
	return start
}

func (s *Scanner) knownLeadAbbrev(kind Kind, g groups) bool {
	switch kind {
	case KindStatute:
		_, ok := s.table.Code(g.get("code"))
		return ok
	case KindConstitution:
		_, ok := s.table.Constitution(g.get("jurisdiction"))
		return ok
	}
	return false
}
