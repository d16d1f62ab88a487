// Package format renders citations as canonical strings in a selected
// citation style. Rendering is a pure function of the components and the
// style; it never consults document order or other citations.
package format

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStyle is returned when parsing a style name outside the set.
var ErrUnknownStyle = errors.New("unknown citation style")

// Style selects the citation manual whose templates are applied.
type Style int

const (
	StyleBluebook Style = iota
	StyleALWD
	StyleChicago
)

// Styles lists every supported style.
var Styles = []Style{StyleBluebook, StyleALWD, StyleChicago}

func (s Style) String() string {
	switch s {
	case StyleBluebook:
		return "bluebook"
	case StyleALWD:
		return "alwd"
	case StyleChicago:
		return "chicago"
	default:
		return fmt.Sprintf("style(%d)", int(s))
	}
}

// ParseStyle converts a style name, ignoring case.
func ParseStyle(name string) (Style, error) {
	for _, s := range Styles {
		if strings.EqualFold(strings.TrimSpace(name), s.String()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStyle, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Style) UnmarshalText(text []byte) error {
	parsed, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// sectionSymbol is the word or sign that introduces a section number.
func (s Style) sectionSymbol() string {
	if s == StyleChicago {
		return "sec."
	}
	return "§"
}

// sectionsSymbol introduces a span of sections.
func (s Style) sectionsSymbol() string {
	if s == StyleChicago {
		return "secs."
	}
	return "§§"
}

// rangeDash separates the ends of a page range.
func (s Style) rangeDash() string {
	if s == StyleALWD {
		return "-"
	}
	return "–"
}
