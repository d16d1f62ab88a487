package citation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/coolbeans/lexcite/pkg/reporter"
)

// AuthorityKey returns the normalized identity of the authority the
// components cite, independent of pincite. Two citations with the same key
// are the same case, statute, provision, rule, or work.
func AuthorityKey(components Components) string {
	switch c := components.(type) {
	case *CaseComponents:
		if c.Volume != "" && c.Reporter != "" && c.FirstPage != "" {
			return join("case", c.Volume, reporter.Key(c.Reporter), c.FirstPage)
		}
		return join("case", normalizeName(c.PartyA), normalizeName(c.PartyB), c.Volume, reporter.Key(c.Reporter), c.FirstPage)
	case *StatuteComponents:
		return join("statute", c.Title, reporter.Key(c.Code), strings.ToLower(c.Section))
	case *ConstitutionComponents:
		provision := "art" + strings.ToUpper(c.Article)
		if c.Amendment != "" {
			provision = "amend" + strings.ToUpper(c.Amendment)
		}
		if c.Preamble {
			provision = "pmbl"
		}
		return join("constitution", reporter.Key(c.Jurisdiction), provision, c.Section)
	case *RuleComponents:
		return join("rule", reporter.Key(c.Body), strings.ToLower(c.Number))
	case *SecondaryComponents:
		if c.Journal != "" {
			return join("secondary", c.Volume, reporter.Key(c.Journal), c.Page)
		}
		return join("secondary", normalizeName(c.Title), strings.ToLower(c.Section))
	case nil:
		return ""
	default:
		panic(fmt.Sprintf("citation: unhandled components %T", components))
	}
}

func join(parts ...string) string {
	return strings.Join(parts, "|")
}

// ShortName returns the name a supra short form uses: the first party of a
// case without leading articles, procedural prefixes, or corporate suffixes,
// or the author's surname for a secondary work. It is empty when no usable name exists.
func ShortName(components Components) string {
	switch c := components.(type) {
	case *CaseComponents:
		name := StripLeadingArticle(strings.TrimSpace(c.PartyA))
		for _, prefix := range []string{"In re ", "Ex parte ", "In the Matter of "} {
			if strings.HasPrefix(name, prefix) {
				name = strings.TrimSpace(name[len(prefix):])
				break
			}
		}
		if i := strings.Index(name, ","); i > 0 {
			name = name[:i]
		}
		return strings.TrimSpace(name)
	case *SecondaryComponents:
		author := strings.TrimSpace(c.Author)
		if i := strings.Index(author, " & "); i > 0 {
			author = author[:i]
		}
		if fields := strings.Fields(author); len(fields) > 0 {
			return fields[len(fields)-1]
		}
		return ""
	default:
		return ""
	}
}

// StripLeadingArticle removes a leading "The", "A", or "An".
func StripLeadingArticle(name string) string {
	for _, article := range []string{"the ", "a ", "an "} {
		if len(name) > len(article) && strings.EqualFold(name[:len(article)], article) {
			return strings.TrimSpace(name[len(article):])
		}
	}
	return name
}

// normalizeName lowercases a party name and keeps only letters and digits
// separated by single spaces.
func normalizeName(name string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}
	return b.String()
}

// NamesMatch reports whether a name typed in a short form refers to the
// components' short name, ignoring case and punctuation.
func NamesMatch(typed string, components Components) bool {
	short := normalizeName(ShortName(components))
	typedName := normalizeName(StripLeadingArticle(typed))
	if short == "" || typedName == "" {
		return false
	}
	if short == typedName {
		return true
	}
	if c, ok := components.(*CaseComponents); ok {
		return normalizeName(c.PartyA) == typedName || normalizeName(c.PartyB) == typedName
	}
	return false
}
