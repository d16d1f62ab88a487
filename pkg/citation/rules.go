package citation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coolbeans/lexcite/pkg/reporter"
)

// Pattern fragments. The scanner matches a normalized buffer, so a single
// space stands for any run of whitespace in the source.
const (
	// A party word ends in a period only when it is an initialism or a known
	// abbreviation, so a name cannot run back across the end of a sentence.
	partyAbbrev = `(?:Admin|Am|Ass'n|Auth|Bd|Bros|Bldg|Cal|Cnty|Co|Comm'n|Comm|Comp|Corp|Ctr|Dep't|Dev|Dist|Div|Educ|Elec|Emps|Eng'g|Env't|Fed|Fin|Gen|Gov't|Hosp|Inc|Indus|Ins|Int'l|Inv|Ltd|Mfg|Mgmt|Mun|Mut|Nat'l|Org|Pac|Pharm|Prods|Prop|Pub|Ry|Sav|Sch|Sec|Servs?|Soc'y|Sys|Tech|Tel|Transp|Twp|Univ|Utils?)\.`
	partyWord   = `(?:` + partyAbbrev + `|(?:[A-Z]\.)+|[A-Z][\w'&\-]*)`
	partyName   = partyWord + `(?: (?:(?:of|the|and|for|de|la|ex|rel\.|&) )*` + partyWord + `)*`
	partySuffix = `(?:,? (?:Inc|LLC|L\.L\.C|Co|Corp|Ltd|L\.P|N\.A|P\.C|P\.A|S\.A)\.?)*`
	party       = partyName + partySuffix

	pinNumber = `\d+(?:[-–]\d+)?(?: nn?\. ?\d+)?\b`
	casePin   = `(?:, (?P<pincite>` + pinNumber + `))?`
	caseParen = `(?: \((?:(?P<court>[^()]*?) )?(?P<year>\d{4})\))?`

	genericReporter = `[A-Z][A-Za-z]*\.(?: ?(?:[A-Z][A-Za-z']*\.|\d[a-z]{1,2}\b))*`
	genericCode     = `[A-Z][A-Za-z.']*(?: (?:&|[A-Z][A-Za-z.']*)){0,5}`
	genericJuris    = `[A-Z][A-Za-z.]*(?: [A-Z][A-Za-z.]*)?`

	sectionNumber = `(?P<section>\d+[A-Za-z0-9]*(?:[.:\-]\d+[A-Za-z0-9]*)*)`
	subdivisions  = `(?:\([A-Za-z0-9]{1,4}\))*`
)

// alternation builds a regexp alternation from literal abbreviations. Spaces
// in an abbreviation become optional, as does a space after an interior
// period, so "Pa.C.S." also matches "Pa. C.S.".
func alternation(forms []string) string {
	parts := make([]string, 0, len(forms))
	for _, form := range forms {
		parts = append(parts, flexible(form))
	}
	if len(parts) == 0 {
		return `\b\B`
	}
	return strings.Join(parts, "|")
}

func flexible(form string) string {
	var b strings.Builder
	runes := []rune(strings.Join(strings.Fields(form), " "))
	for i, r := range runes {
		if r == ' ' {
			b.WriteString(` ?`)
			continue
		}
		b.WriteString(regexp.QuoteMeta(string(r)))
		if r == '.' && i+1 < len(runes) && runes[i+1] != ' ' {
			b.WriteString(` ?`)
		}
	}
	return b.String()
}

// standardRules returns the built-in grammar, most specific first: full case
// citations, bare reporter citations, statutes, constitutional provisions,
// rules, secondary authority, then short forms.
func standardRules(table *reporter.Table) []*Rule {
	reporters := `(?:` + alternation(table.ReporterForms()) + `|` + genericReporter + `)`
	codes := `(?:` + alternation(table.CodeForms()) + `|` + genericCode + `)`
	bodies := `(?:` + alternation(table.RuleBodyForms()) + `)`
	journals := `(?:` + alternation(table.JournalForms()) + `)`
	jurisdictions := `(?:` + alternation(table.ConstitutionForms()) + `|` + genericJuris + `)`

	caseFull := mustRule("case_full", KindCase, FormFull,
		`(?:(?P<party_a>`+party+`) v\.? (?P<party_b>`+party+`)|(?P<party_re>(?:In re|Ex parte|In the Matter of) `+party+`)),? `+
			`\b(?P<volume>\d+) (?P<reporter>`+reporters+`)(?: (?P<page>\d+)\b)?`+casePin+caseParen)
	caseFull.accept = acceptCase
	caseFull.parse = parseCase

	caseBare := mustRule("case_reporter", KindCase, FormFull,
		`\b(?P<volume>\d+) (?P<reporter>`+reporters+`)(?: (?P<page>\d+)\b)?`+casePin+caseParen)
	caseBare.accept = acceptCase
	caseBare.parse = parseCase

	statute := mustRule("statute", KindStatute, FormFull,
		`(?:\b(?P<title>\d+[A-Za-z]?) )?(?P<code>`+codes+`) ?(?P<symbol>§§?|[Ss]ec(?:tion|s?\.)) ?`+sectionNumber+
			`(?P<subsection>`+subdivisions+`)(?P<etseq> et seq\.)?(?: \((?:(?P<edition>[^()]*?) )?(?P<year>\d{4})\))?`)
	statute.accept = acceptStatute
	statute.parse = parseStatute

	constitution := mustRule("constitution", KindConstitution, FormFull,
		`(?P<jurisdiction>`+jurisdictions+`) ?Const\. ?(?:(?P<preamble>pmbl\.)|(?i:art\.) ?(?P<article>[IVXLCivxlc]+|\d+)|(?i:amend\.) ?(?P<amendment>[IVXLCivxlc]+|\d+))`+
			`(?:,? ?(?:§|[Ss]ec\.) ?(?P<section>\d+))?(?:,? ?cl\. ?(?P<clause>\d+))?`)
	constitution.parse = parseConstitution

	ruleBody := mustRule("rule", KindRule, FormFull,
		`(?P<body>`+bodies+`) ?(?:No\. ?)?(?P<number>\d+(?:\.\d+)*[a-z]?)(?P<subdivision>`+subdivisions+`)`)
	ruleBody.parse = parseRule

	ruleBare := mustRule("rule_bare", KindRule, FormFull,
		`\bRule (?P<number>\d+(?:\.\d+)*[a-z]?)(?P<subdivision>`+subdivisions+`)`)
	ruleBare.parse = parseRule

	journal := mustRule("journal", KindSecondary, FormFull,
		`\b(?P<volume>\d+) (?P<journal>`+journals+`) (?P<page>\d+)\b`+casePin+`(?: \((?P<year>\d{4})\))?`)
	journal.parse = parseJournal

	restatement := mustRule("restatement", KindSecondary, FormFull,
		`Restatement \((?P<edition>First|Second|Third|Fourth)\) of (?P<subject>(?:the )?[A-Z][A-Za-z]*(?: (?:of|and|the|[A-Z][A-Za-z]*))*) ?(?:§|[Ss]ec\.) ?`+
			`(?P<section>\d+[A-Za-z]?(?:\.\d+)?)(?: \((?:(?P<publisher>[^()]*?) )?(?P<year>\d{4})\))?`)
	restatement.parse = parseRestatement

	id := mustRule("id", KindCase, FormID,
		`\b(?:[Ii]d|[Ii]bid)\.(?:(?: at|,(?: at)?) (?P<pincite>`+pinNumber+`))?`)
	id.parse = parseShortForm

	supra := mustRule("supra", KindCase, FormSupra,
		`(?P<name>`+partyName+`), supra(?: note \d+)?(?:,? (?:at )?(?P<pincite>`+pinNumber+`))?`)
	supra.parse = parseShortForm

	shortCase := mustRule("short_case", KindCase, FormShortCase,
		`(?:(?P<name>`+partyName+`), )?\b(?P<volume>\d+) (?P<reporter>`+reporters+`) at (?P<pincite>`+pinNumber+`)`)
	shortCase.accept = acceptCase
	shortCase.parse = parseShortForm

	return []*Rule{caseFull, caseBare, statute, constitution, ruleBody, ruleBare, journal, restatement, id, supra, shortCase}
}

// acceptCase rejects reporter matches that are really codes or journals, that
// run into the next word, or that lack a page while naming an unknown
// reporter.
func acceptCase(s *Scanner, buf *matchBuffer, loc []int, g groups) bool {
	abbrev := g.get("reporter")
	if abbrev == "" {
		return false
	}
	if _, isCode := s.table.Code(abbrev); isCode {
		return false
	}
	if _, isJournal := s.table.Journal(abbrev); isJournal {
		return false
	}
	if !reporterBoundary(buf.text, loc[1]) {
		return false
	}
	if g.get("page") == "" && g.get("pincite") == "" {
		_, known := s.table.Reporter(abbrev)
		return known
	}
	return true
}

// acceptStatute requires a section symbol when the code is not in the table,
// so prose like "This Section 5" is not mistaken for a statute.
func acceptStatute(s *Scanner, _ *matchBuffer, _ []int, g groups) bool {
	if _, known := s.table.Code(g.get("code")); known {
		return true
	}
	return strings.HasPrefix(g.get("symbol"), "§")
}

// reporterBoundary reports whether the match ends where a word ends.
func reporterBoundary(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
