// Package toa builds a table of authorities: every authority cited in a
// document, grouped by section, sorted, with merged pincites and the pages
// on which it is cited.
package toa

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/coolbeans/lexcite/pkg/citation"
	"github.com/coolbeans/lexcite/pkg/format"
	"github.com/coolbeans/lexcite/pkg/reporter"
)

// DefaultPassimThreshold is the number of distinct pages at which the page
// list is replaced by "passim".
const DefaultPassimThreshold = 5

// Passim is printed instead of a page list for frequently cited authority.
const Passim = "passim"

// Table is a built table of authorities.
type Table struct {
	Sections []Section `json:"sections"`
}

// Section holds the entries of one kind of authority.
type Section struct {
	Heading string        `json:"heading"`
	Kind    citation.Kind `json:"kind"`
	Entries []Entry       `json:"entries"`
}

// Entry is one authority in the table.
type Entry struct {
	// Authority is the full citation without pincite.
	Authority string          `json:"authority"`
	Emphasis  []citation.Span `json:"emphasis,omitempty"`

	// Pincites are the distinct normalized pincites in first-seen order;
	// MergedPincites is their rendering with numeric ranges merged.
	Pincites       []string `json:"pincites,omitempty"`
	MergedPincites string   `json:"merged_pincites,omitempty"`

	Pages          []int  `json:"pages,omitempty"`
	PageReferences string `json:"page_references,omitempty"`

	Key   string `json:"key"`
	Count int    `json:"count"`
}

// sectionOrder fixes the order and headings of sections.
var sectionOrder = []struct {
	kind    citation.Kind
	heading string
}{
	{citation.KindCase, "Cases"},
	{citation.KindStatute, "Statutes"},
	{citation.KindRule, "Rules"},
	{citation.KindConstitution, "Constitutional Provisions"},
	{citation.KindSecondary, "Secondary Authority"},
}

// Builder builds tables of authorities in one style.
type Builder struct {
	Style format.Style

	// PassimThreshold is the distinct page count at which "passim" is
	// printed. Zero disables passim.
	PassimThreshold int

	table     *reporter.Table
	formatter *format.Formatter
}

// NewBuilder creates a builder with the default passim threshold. A nil
// table selects the built-in reference data.
func NewBuilder(table *reporter.Table, style format.Style) *Builder {
	if table == nil {
		table = reporter.Default()
	}
	return &Builder{
		Style:           style,
		PassimThreshold: DefaultPassimThreshold,
		table:           table,
		formatter:       format.New(table),
	}
}

type group struct {
	key            string
	representative *citation.Citation
	members        []*citation.Citation
}

// Build groups citations by authority and returns the table. Citations
// carrying errors and unbound short forms are not listed.
func (b *Builder) Build(citations []*citation.Citation) *Table {
	groups := make(map[string]*group)
	var order []string

	for _, c := range citations {
		if c.HasErrors() || c.Components == nil {
			continue
		}
		if c.Form != citation.FormFull && c.Antecedent == "" {
			continue
		}
		key := c.AuthorityKey
		if key == "" {
			key = citation.AuthorityKey(c.Components)
		}
		g, ok := groups[key]
		if !ok {
			g = &group{key: key}
			groups[key] = g
			order = append(order, key)
		}
		g.members = append(g.members, c)
		if g.representative == nil || moreComplete(c, g.representative) {
			g.representative = c
		}
	}

	byKind := make(map[citation.Kind][]*group)
	for _, key := range order {
		g := groups[key]
		kind := g.representative.Kind()
		byKind[kind] = append(byKind[kind], g)
	}

	result := &Table{Sections: []Section{}}
	for _, s := range sectionOrder {
		members := byKind[s.kind]
		if len(members) == 0 {
			continue
		}
		entries := make([]Entry, len(members))
		for i, g := range members {
			entries[i] = b.entry(g)
		}
		b.sortEntries(s.kind, members, entries)
		result.Sections = append(result.Sections, Section{Heading: s.heading, Kind: s.kind, Entries: entries})
	}
	return result
}

// moreComplete reports whether c is a better representative than current:
// a full citation beats a short form, named parties beat none, then higher
// confidence wins. Ties keep the earlier citation.
func moreComplete(c, current *citation.Citation) bool {
	if (c.Form == citation.FormFull) != (current.Form == citation.FormFull) {
		return c.Form == citation.FormFull
	}
	if named(c) != named(current) {
		return named(c)
	}
	return c.Confidence > current.Confidence
}

func named(c *citation.Citation) bool {
	switch comps := c.Components.(type) {
	case *citation.CaseComponents:
		return comps.PartyA != ""
	case *citation.SecondaryComponents:
		return comps.Author != "" || comps.Title != ""
	default:
		return true
	}
}

func (b *Builder) entry(g *group) Entry {
	rendered := b.formatter.Render(citation.WithPincite(g.representative.Components, ""), b.Style)
	entry := Entry{
		Authority: rendered.Text,
		Emphasis:  rendered.Italics,
		Key:       g.key,
		Count:     len(g.members),
	}

	var ranges []citation.PageRange
	var other []string
	seenPin := make(map[string]bool)
	seenPage := make(map[int]bool)
	pagePincites := kindUsesPages(g.representative.Kind())

	for _, c := range g.members {
		if c.Page > 0 && !seenPage[c.Page] {
			seenPage[c.Page] = true
			entry.Pages = append(entry.Pages, c.Page)
		}
		pin := citation.Pincite(c.Components)
		if pagePincites {
			pin = citation.NormalizePincite(pin)
		}
		if pin == "" || seenPin[pin] {
			continue
		}
		seenPin[pin] = true
		entry.Pincites = append(entry.Pincites, pin)
		if !pagePincites {
			other = append(other, pin)
			continue
		}
		numeric, rest := citation.ParsePageRanges(pin)
		ranges = append(ranges, numeric...)
		other = append(other, rest...)
	}

	var parts []string
	if merged := format.MergePageRanges(ranges, b.Style); merged != "" {
		parts = append(parts, merged)
	}
	parts = append(parts, other...)
	entry.MergedPincites = strings.Join(parts, ", ")

	sort.Ints(entry.Pages)
	entry.PageReferences = b.pageReferences(entry.Pages)
	return entry
}

func kindUsesPages(kind citation.Kind) bool {
	return kind == citation.KindCase || kind == citation.KindSecondary
}

func (b *Builder) pageReferences(pages []int) string {
	if len(pages) == 0 {
		return ""
	}
	if b.PassimThreshold > 0 && len(pages) >= b.PassimThreshold {
		return Passim
	}
	refs := make([]string, len(pages))
	for i, p := range pages {
		refs[i] = strconv.Itoa(p)
	}
	return strings.Join(refs, ", ")
}

// ToJSON serializes the table to JSON.
func (t *Table) ToJSON() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// Entries returns the number of entries across all sections.
func (t *Table) Entries() int {
	n := 0
	for _, s := range t.Sections {
		n += len(s.Entries)
	}
	return n
}
