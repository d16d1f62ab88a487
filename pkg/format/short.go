package format

import (
	"fmt"

	"github.com/coolbeans/lexcite/pkg/citation"
)

// Locator renders the pinpoint a short form carries for components, using
// pincite in place of the components' own pinpoint. Statutes always name
// their section; other kinds yield "" when pincite is empty.
func (f *Formatter) Locator(components citation.Components, pincite string, style Style) string {
	if c, ok := components.(*citation.StatuteComponents); ok {
		return style.sectionSymbol() + " " + c.Section + pincite
	}
	if pincite == "" {
		return ""
	}
	switch c := components.(type) {
	case *citation.CaseComponents, *citation.SecondaryComponents:
		pin := FormatPincite(pincite, style)
		if style == StyleChicago {
			return pin
		}
		return "at " + pin
	case *citation.ConstitutionComponents:
		return "cl. " + pincite
	case *citation.RuleComponents:
		return "r. " + c.Number + pincite
	default:
		panic(fmt.Sprintf("format: unhandled components %T", components))
	}
}

// RenderID renders an "Id." short form. Bluebook and ALWD capitalize it only
// at the start of a sentence; Chicago writes "Ibid." followed by a comma.
func (f *Formatter) RenderID(sentenceStart bool, locator string, style Style) Rendered {
	var w writer
	switch {
	case style == StyleChicago:
		w.italic("Ibid.")
		if locator != "" {
			w.text(", ", locator)
		}
		return w.rendered()
	case sentenceStart:
		w.italic("Id.")
	default:
		w.italic("id.")
	}
	if locator != "" {
		w.text(" ", locator)
	}
	return w.rendered()
}

// RenderSupra renders "Name, supra, at 115".
func (f *Formatter) RenderSupra(name, pincite string, style Style) Rendered {
	var w writer
	w.italic(name)
	w.text(", ")
	w.italic("supra")
	if pin := FormatPincite(pincite, style); pin != "" {
		if style == StyleChicago {
			w.text(", ", pin)
		} else {
			w.text(", at ", pin)
		}
	}
	return w.rendered()
}

// RenderShortCase renders "Roe, 410 U.S. at 115". Without a pincite the first
// page stands in; without a name only the reporter part is written.
func (f *Formatter) RenderShortCase(c *citation.CaseComponents, style Style) Rendered {
	var w writer
	if name := citation.ShortName(c); name != "" {
		w.italic(name)
		w.text(", ")
	}
	pin := c.Pincite
	if pin == "" {
		pin = c.FirstPage
	}
	w.text(joinNonEmpty(" ", c.Volume, c.Reporter))
	if pin != "" {
		w.text(" at ", FormatPincite(pin, style))
	}
	return w.rendered()
}
