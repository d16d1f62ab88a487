package citation

import (
	"strings"

	"github.com/coolbeans/lexcite/pkg/reporter"
)

// Confidence penalties for expected components that are absent.
const (
	penaltyMissingPage    = 0.5
	penaltyMissingParties = 0.15
	penaltyMissingYear    = 0.1
	penaltyMissingTitle   = 0.2

	confidenceBareRule  = 0.8
	confidenceShortForm = 0.9
	confidenceJournal   = 0.9
)

// Parser turns scanner candidates into citations. It is safe for concurrent
// use.
type Parser struct {
	table   *reporter.Table
	scanner *Scanner
}

// NewParser returns a parser using the standard grammar over table. A nil
// table selects the built-in reference data.
func NewParser(table *reporter.Table) *Parser {
	return NewParserWithScanner(NewScanner(table))
}

// NewParserWithScanner returns a parser over an existing scanner.
func NewParserWithScanner(scanner *Scanner) *Parser {
	return &Parser{table: scanner.Table(), scanner: scanner}
}

// Scanner returns the scanner the parser reads candidates from.
func (p *Parser) Scanner() *Scanner { return p.scanner }

// ParseAll recognizes every citation in text, in source order. Partial
// matches are returned with lowered confidence and warnings attached.
func (p *Parser) ParseAll(text string) []*Citation {
	candidates := p.scanner.Scan(text)
	citations := make([]*Citation, 0, len(candidates))
	for _, candidate := range candidates {
		citations = append(citations, p.Parse(text, candidate))
	}
	return citations
}

// ParseOne parses raw as a single citation, such as one returned by a search
// provider. The longest candidate wins; ok is false when nothing matched.
func (p *Parser) ParseOne(raw string) (*Citation, bool) {
	candidates := p.scanner.Scan(raw)
	if len(candidates) == 0 {
		return nil, false
	}
	best := candidates[0]
	for _, candidate := range candidates[1:] {
		if candidate.Span.Len() > best.Span.Len() {
			best = candidate
		}
	}
	return p.Parse(raw, best), true
}

// Parse converts one candidate found in text into a citation.
func (p *Parser) Parse(text string, candidate Candidate) *Citation {
	c := &Citation{
		RawText:       text[candidate.Span.Start:candidate.Span.End],
		Span:          candidate.Span,
		Form:          candidate.Form,
		Confidence:    1,
		SentenceStart: candidate.sentenceStart,
	}

	rule := candidate.Rule
	g := namedGroups(rule.anchored, rule.anchored.FindStringSubmatch(candidate.text))
	if rule.parse != nil {
		rule.parse(p, g, c)
	}
	if c.Components == nil {
		c.Components, _ = NewComponents(candidate.Kind)
	}
	if c.Form == FormFull {
		c.AuthorityKey = AuthorityKey(c.Components)
	}
	c.Confidence = clamp(c.Confidence)
	return c
}

func clamp(confidence float64) float64 {
	switch {
	case confidence < 0:
		return 0
	case confidence > 1:
		return 1
	}
	return confidence
}

func (p *Parser) canonicalReporter(abbrev string) (string, *reporter.ReporterEntry) {
	if entry, ok := p.table.Reporter(abbrev); ok {
		return entry.Abbrev, entry
	}
	return collapseSpaces(abbrev), nil
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func parseCase(p *Parser, g groups, c *Citation) {
	components := &CaseComponents{
		Volume:    g.get("volume"),
		FirstPage: g.get("page"),
		Pincite:   NormalizePincite(g.get("pincite")),
		Year:      g.get("year"),
	}
	if name := g.get("party_re"); name != "" {
		components.PartyA = collapseSpaces(name)
	} else {
		components.PartyA = collapseSpaces(g.get("party_a"))
		components.PartyB = collapseSpaces(g.get("party_b"))
	}

	abbrev, entry := p.canonicalReporter(g.get("reporter"))
	components.Reporter = abbrev
	if court := g.get("court"); court != "" {
		if courtEntry, ok := p.table.Court(court); ok {
			components.Court = courtEntry.Abbrev
		} else {
			components.Court = collapseSpaces(court)
		}
	} else if entry != nil && entry.Court != "" {
		components.Court = entry.Court
	}
	c.Components = components

	if components.FirstPage == "" {
		c.Confidence -= penaltyMissingPage
		c.AddWarning(IssueMissingComponent, "first_page", "case citation has no first page")
	}
	named := components.PartyA != ""
	if !named {
		c.Confidence -= penaltyMissingParties
		c.AddWarning(IssueMissingComponent, "party_a", "case citation has no case name")
	}
	if components.Year == "" {
		c.Confidence -= penaltyMissingYear
		if named {
			c.AddWarning(IssueMissingComponent, "year", "case citation has no year")
		}
	}
}

func isPluralSymbol(symbol string) bool {
	return symbol == "§§" || strings.EqualFold(symbol, "secs.")
}

func parseStatute(p *Parser, g groups, c *Citation) {
	components := &StatuteComponents{
		Title:      g.get("title"),
		Code:       collapseSpaces(g.get("code")),
		Section:    g.get("section"),
		Subsection: g.get("subsection"),
		EtSeq:      g.get("etseq") != "",
		Year:       strings.TrimSpace(g.get("edition") + " " + g.get("year")),
		Plural:     isPluralSymbol(g.get("symbol")),
	}
	entry, known := p.table.Code(components.Code)
	if known {
		components.Code = entry.Abbrev
	}
	c.Components = components

	if known && entry.TitleRequired && components.Title == "" {
		c.Confidence -= penaltyMissingTitle
		c.AddWarning(IssueMissingComponent, "title", components.Code+" citation has no title")
	}
}

func parseConstitution(p *Parser, g groups, c *Citation) {
	components := &ConstitutionComponents{
		Jurisdiction: collapseSpaces(g.get("jurisdiction")),
		Article:      strings.ToUpper(g.get("article")),
		Amendment:    strings.ToUpper(g.get("amendment")),
		Preamble:     g.get("preamble") != "",
		Section:      g.get("section"),
		Clause:       g.get("clause"),
	}
	if entry, ok := p.table.Constitution(components.Jurisdiction); ok {
		components.Jurisdiction = entry.Abbrev
	}
	c.Components = components
}

func parseRule(p *Parser, g groups, c *Citation) {
	components := &RuleComponents{
		Body:        collapseSpaces(g.get("body")),
		Number:      g.get("number"),
		Subdivision: g.get("subdivision"),
	}
	if components.Body == "" {
		c.Confidence = confidenceBareRule
	} else if entry, ok := p.table.RuleBody(components.Body); ok {
		components.Body = entry.Abbrev
	}
	c.Components = components
}

func parseJournal(p *Parser, g groups, c *Citation) {
	components := &SecondaryComponents{
		Volume:  g.get("volume"),
		Journal: collapseSpaces(g.get("journal")),
		Page:    g.get("page"),
		Pincite: NormalizePincite(g.get("pincite")),
		Year:    g.get("year"),
	}
	if entry, ok := p.table.Journal(components.Journal); ok {
		components.Journal = entry.Abbrev
	}
	c.Components = components
	c.Confidence = confidenceJournal
}

func parseRestatement(_ *Parser, g groups, c *Citation) {
	c.Components = &SecondaryComponents{
		Title:   "Restatement (" + g.get("edition") + ") of " + collapseSpaces(g.get("subject")),
		Section: g.get("section"),
		Year:    g.get("year"),
	}
}

// parseShortForm records what a short form names: a case or author name for
// supra, volume and reporter for a short case cite, and the pincite. The
// authority key stays empty until the resolver binds it to an antecedent.
func parseShortForm(p *Parser, g groups, c *Citation) {
	components := &CaseComponents{
		PartyA:  collapseSpaces(g.get("name")),
		Volume:  g.get("volume"),
		Pincite: NormalizePincite(g.get("pincite")),
	}
	if abbrev := g.get("reporter"); abbrev != "" {
		components.Reporter, _ = p.canonicalReporter(abbrev)
	}
	c.Components = components
	c.Confidence = confidenceShortForm
}
