package toa

import (
	"sort"
	"strings"
	"unicode"

	"github.com/coolbeans/lexcite/pkg/citation"
)

// sortEntries orders entries within a section. members[i] is the group
// entries[i] was built from. Ties fall back to the authority key.
func (b *Builder) sortEntries(kind citation.Kind, members []*group, entries []Entry) {
	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(x, y int) bool {
		i, j := idx[x], idx[y]
		if c := b.compare(kind, members[i].representative.Components, members[j].representative.Components, entries[i], entries[j]); c != 0 {
			return c < 0
		}
		return entries[i].Key < entries[j].Key
	})

	sorted := make([]Entry, len(entries))
	for pos, i := range idx {
		sorted[pos] = entries[i]
	}
	copy(entries, sorted)
}

func (b *Builder) compare(kind citation.Kind, x, y citation.Components, ex, ey Entry) int {
	switch kind {
	case citation.KindCase:
		cx, cy := x.(*citation.CaseComponents), y.(*citation.CaseComponents)
		if c := strings.Compare(caseSortName(cx), caseSortName(cy)); c != 0 {
			return c
		}
		return strings.Compare(strings.ToLower(ex.Authority), strings.ToLower(ey.Authority))
	case citation.KindStatute:
		sx, sy := x.(*citation.StatuteComponents), y.(*citation.StatuteComponents)
		if c := compareNatural(sx.Title, sy.Title); c != 0 {
			return c
		}
		if c := compareNatural(sx.Section, sy.Section); c != 0 {
			return c
		}
		return strings.Compare(sx.Code, sy.Code)
	case citation.KindRule:
		rx, ry := x.(*citation.RuleComponents), y.(*citation.RuleComponents)
		if c := compareNatural(rx.Number, ry.Number); c != 0 {
			return c
		}
		return strings.Compare(rx.Body, ry.Body)
	case citation.KindConstitution:
		return b.compareConstitutions(x.(*citation.ConstitutionComponents), y.(*citation.ConstitutionComponents))
	case citation.KindSecondary:
		return strings.Compare(strings.ToLower(ex.Authority), strings.ToLower(ey.Authority))
	default:
		panic("toa: unhandled kind " + kind.String())
	}
}

// caseSortName is the first party lowercased without a leading article.
func caseSortName(c *citation.CaseComponents) string {
	return strings.ToLower(citation.StripLeadingArticle(strings.TrimSpace(c.PartyA)))
}

func (b *Builder) compareConstitutions(x, y *citation.ConstitutionComponents) int {
	if c := b.jurisdictionRank(x.Jurisdiction) - b.jurisdictionRank(y.Jurisdiction); c != 0 {
		return c
	}
	if c := strings.Compare(x.Jurisdiction, y.Jurisdiction); c != 0 {
		return c
	}
	if c := provisionRank(x) - provisionRank(y); c != 0 {
		return c
	}
	if c := provisionNumber(x) - provisionNumber(y); c != 0 {
		return c
	}
	return compareNatural(x.Section, y.Section)
}

// jurisdictionRank puts the federal constitution before the states.
func (b *Builder) jurisdictionRank(jurisdiction string) int {
	if entry, ok := b.table.Constitution(jurisdiction); ok {
		return entry.Priority
	}
	return 1 << 10
}

// provisionRank orders the preamble, then articles, then amendments.
func provisionRank(c *citation.ConstitutionComponents) int {
	switch {
	case c.Preamble:
		return 0
	case c.Article != "":
		return 1
	default:
		return 2
	}
}

func provisionNumber(c *citation.ConstitutionComponents) int {
	if c.Article != "" {
		return romanOrNumber(c.Article)
	}
	return romanOrNumber(c.Amendment)
}

var romanValues = map[rune]int{'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000}

// romanOrNumber reads an article or amendment number written in roman or
// arabic numerals. Unreadable input sorts last.
func romanOrNumber(s string) int {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	if n, ok := leadingNumber(s); ok {
		return n
	}
	total, prev := 0, 0
	runes := []rune(s)
	for i := len(runes) - 1; i >= 0; i-- {
		v, ok := romanValues[runes[i]]
		if !ok {
			return 1 << 20
		}
		if v < prev {
			total -= v
		} else {
			total += v
			prev = v
		}
	}
	return total
}

func leadingNumber(s string) (int, bool) {
	n, digits := 0, 0
	for _, r := range s {
		if !unicode.IsDigit(r) {
			break
		}
		n = n*10 + int(r-'0')
		digits++
	}
	return n, digits > 0
}

// compareNatural compares strings treating runs of digits as numbers, so
// "Rule 9" sorts before "Rule 10" and "1681a" after "1681".
func compareNatural(a, b string) int {
	for a != "" && b != "" {
		ca, cb := rune(a[0]), rune(b[0])
		if isDigit(ca) && isDigit(cb) {
			na, restA := splitDigits(a)
			nb, restB := splitDigits(b)
			if c := compareDigitRuns(na, nb); c != 0 {
				return c
			}
			a, b = restA, restB
			continue
		}
		la, lb := unicode.ToLower(ca), unicode.ToLower(cb)
		if la != lb {
			if la < lb {
				return -1
			}
			return 1
		}
		a, b = a[1:], b[1:]
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func splitDigits(s string) (string, string) {
	i := 0
	for i < len(s) && isDigit(rune(s[i])) {
		i++
	}
	return s[:i], s[i:]
}

func compareDigitRuns(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
