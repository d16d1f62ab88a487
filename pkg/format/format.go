package format

import (
	"fmt"
	"strings"

	"github.com/coolbeans/lexcite/pkg/citation"
	"github.com/coolbeans/lexcite/pkg/reporter"
)

// Formatter renders components using reference data to decide which parts a
// style omits, such as a court implied by its reporter. It is safe for
// concurrent use.
type Formatter struct {
	table *reporter.Table
}

// New creates a formatter over table. A nil table selects the built-in data.
func New(table *reporter.Table) *Formatter {
	if table == nil {
		table = reporter.Default()
	}
	return &Formatter{table: table}
}

// Format renders components in style and returns the plain text.
func (f *Formatter) Format(components citation.Components, style Style) string {
	return f.Render(components, style).Text
}

// RenderCitation renders a parsed citation. A citation carrying errors is
// rendered as its raw text.
func (f *Formatter) RenderCitation(c *citation.Citation, style Style) Rendered {
	if c.HasErrors() || c.Components == nil {
		return Rendered{Text: c.RawText}
	}
	return f.Render(c.Components, style)
}

// Render renders components in style. Missing optional components are
// omitted, never rendered as placeholders.
func (f *Formatter) Render(components citation.Components, style Style) Rendered {
	var w writer
	switch c := components.(type) {
	case *citation.CaseComponents:
		f.renderCase(&w, c, style)
	case *citation.StatuteComponents:
		renderStatute(&w, c, style)
	case *citation.ConstitutionComponents:
		renderConstitution(&w, c, style)
	case *citation.RuleComponents:
		f.renderRule(&w, c)
	case *citation.SecondaryComponents:
		renderSecondary(&w, c, style)
	default:
		panic(fmt.Sprintf("format: unhandled components %T", components))
	}
	return w.rendered()
}

// CaseName returns "A v. B", or A alone when there is no second party.
func CaseName(c *citation.CaseComponents) string {
	switch {
	case c.PartyA != "" && c.PartyB != "":
		return c.PartyA + " v. " + c.PartyB
	default:
		return c.PartyA
	}
}

func (f *Formatter) renderCase(w *writer, c *citation.CaseComponents, style Style) {
	if name := CaseName(c); name != "" {
		w.italic(name)
		w.text(", ")
	}
	w.text(joinNonEmpty(" ", c.Volume, c.Reporter, c.FirstPage))

	if pin := FormatPincite(c.Pincite, style); pin != "" {
		if c.FirstPage != "" {
			w.text(", ", pin)
		} else {
			w.text(" at ", pin)
		}
	}

	if paren := joinNonEmpty(" ", f.parenCourt(c, style), c.Year); paren != "" {
		w.text(" (", paren, ")")
	}
}

// parenCourt returns the court for the parenthetical. A missing court falls
// back to the one the reporter names, as parsing does. Bluebook and Chicago
// omit a court the reporter implies; ALWD omits only the Supreme Court in the
// United States Reports.
func (f *Formatter) parenCourt(c *citation.CaseComponents, style Style) string {
	entry, ok := f.table.Reporter(c.Reporter)
	if !ok {
		return c.Court
	}
	court := c.Court
	if court == "" {
		court = entry.Court
	}
	if court == "" || !entry.CourtImplied || reporter.Key(entry.Court) != reporter.Key(court) {
		return court
	}
	if style == StyleALWD && reporter.Key(entry.Abbrev) != reporter.Key("U.S.") {
		return court
	}
	return ""
}

func renderStatute(w *writer, c *citation.StatuteComponents, style Style) {
	symbol := style.sectionSymbol()
	if c.Plural {
		symbol = style.sectionsSymbol()
	}
	w.text(joinNonEmpty(" ", c.Title, c.Code, symbol), " ", c.Section, c.Subsection)
	if c.EtSeq {
		w.text(" ")
		w.italic("et seq.")
	}
	if c.Year != "" {
		w.text(" (", c.Year, ")")
	}
}

func renderConstitution(w *writer, c *citation.ConstitutionComponents, style Style) {
	w.text(c.Jurisdiction, " Const.")
	switch {
	case c.Preamble:
		w.text(" pmbl.")
	case c.Article != "":
		w.text(" art. ", c.Article)
	case c.Amendment != "":
		w.text(" amend. ", c.Amendment)
	}
	if c.Section != "" {
		w.text(", ", style.sectionSymbol(), " ", c.Section)
	}
	if c.Clause != "" {
		w.text(", cl. ", c.Clause)
	}
}

func (f *Formatter) renderRule(w *writer, c *citation.RuleComponents) {
	if c.Body == "" {
		w.text("Rule ", c.Number, c.Subdivision)
		return
	}
	w.text(c.Body, " ")
	if entry, ok := f.table.RuleBody(c.Body); ok && entry.UsesNo {
		w.text("No. ")
	}
	w.text(c.Number, c.Subdivision)
}

func renderSecondary(w *writer, c *citation.SecondaryComponents, style Style) {
	if c.Journal == "" {
		renderTreatise(w, c, style)
		return
	}
	if c.Author != "" {
		w.text(c.Author, ", ")
	}
	if c.Title != "" {
		if style == StyleChicago {
			w.text("“", c.Title, ",” ")
		} else {
			w.italic(c.Title)
			w.text(", ")
		}
	}
	w.text(joinNonEmpty(" ", c.Volume, c.Journal, c.Page))
	if pin := FormatPincite(c.Pincite, style); pin != "" {
		w.text(", ", pin)
	}
	if c.Year != "" {
		w.text(" (", c.Year, ")")
	}
}

// renderTreatise renders a Restatement or other work cited by section.
func renderTreatise(w *writer, c *citation.SecondaryComponents, style Style) {
	if c.Author != "" {
		w.text(c.Author, ", ")
	}
	w.italic(c.Title)
	if c.Section != "" {
		w.text(" ", style.sectionSymbol(), " ", c.Section)
	}
	if pin := FormatPincite(c.Pincite, style); pin != "" {
		w.text(", at ", pin)
	}
	if c.Year == "" {
		return
	}
	if style == StyleBluebook && strings.HasPrefix(c.Title, "Restatement") {
		w.text(" (Am. L. Inst. ", c.Year, ")")
		return
	}
	w.text(" (", c.Year, ")")
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
