package citation

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when decoding a kind outside the closed set.
var ErrUnknownKind = errors.New("unknown citation kind")

// Components holds the kind-specific fields of a citation. The interface is
// sealed: only the types in this package implement it, so a type switch over
// them is exhaustive.
type Components interface {
	Kind() Kind
	Clone() Components
	sealed()
}

// CaseComponents are the fields of a case citation.
type CaseComponents struct {
	PartyA    string `json:"party_a,omitempty"`
	PartyB    string `json:"party_b,omitempty"`
	Volume    string `json:"volume,omitempty"`
	Reporter  string `json:"reporter_abbrev,omitempty"`
	FirstPage string `json:"first_page,omitempty"`
	Pincite   string `json:"pincite,omitempty"`
	Court     string `json:"court,omitempty"`
	Year      string `json:"year,omitempty"`
}

// StatuteComponents are the fields of a statutory or regulatory citation.
type StatuteComponents struct {
	Title      string `json:"title,omitempty"`
	Code       string `json:"code_abbrev"`
	Section    string `json:"section"`
	Subsection string `json:"subsection,omitempty"`
	EtSeq      bool   `json:"et_seq,omitempty"`
	Year       string `json:"year_or_edition,omitempty"`

	// Plural marks a span of sections cited with "§§".
	Plural bool `json:"plural_sections,omitempty"`
}

// ConstitutionComponents are the fields of a constitutional citation.
// Exactly one of Article, Amendment, or Preamble identifies the provision.
type ConstitutionComponents struct {
	Jurisdiction string `json:"jurisdiction"`
	Article      string `json:"article,omitempty"`
	Amendment    string `json:"amendment,omitempty"`
	Preamble     bool   `json:"preamble,omitempty"`
	Section      string `json:"section,omitempty"`
	Clause       string `json:"clause,omitempty"`
}

// RuleComponents are the fields of a court rule citation. An empty Body
// stands for a bare "Rule 12(b)" reference.
type RuleComponents struct {
	Body        string `json:"body,omitempty"`
	Number      string `json:"number"`
	Subdivision string `json:"subdivision,omitempty"`
}

// SecondaryComponents are the fields of a secondary authority: a periodical
// article or a Restatement section.
type SecondaryComponents struct {
	Author  string `json:"author,omitempty"`
	Title   string `json:"title,omitempty"`
	Volume  string `json:"volume,omitempty"`
	Journal string `json:"journal,omitempty"`
	Page    string `json:"page,omitempty"`
	Section string `json:"section,omitempty"`
	Pincite string `json:"pincite,omitempty"`
	Year    string `json:"year,omitempty"`
}

func (*CaseComponents) Kind() Kind         { return KindCase }
func (*StatuteComponents) Kind() Kind      { return KindStatute }
func (*ConstitutionComponents) Kind() Kind { return KindConstitution }
func (*RuleComponents) Kind() Kind         { return KindRule }
func (*SecondaryComponents) Kind() Kind    { return KindSecondary }

func (c *CaseComponents) Clone() Components         { clone := *c; return &clone }
func (c *StatuteComponents) Clone() Components      { clone := *c; return &clone }
func (c *ConstitutionComponents) Clone() Components { clone := *c; return &clone }
func (c *RuleComponents) Clone() Components         { clone := *c; return &clone }
func (c *SecondaryComponents) Clone() Components    { clone := *c; return &clone }

func (*CaseComponents) sealed()         {}
func (*StatuteComponents) sealed()      {}
func (*ConstitutionComponents) sealed() {}
func (*RuleComponents) sealed()         {}
func (*SecondaryComponents) sealed()    {}

// NewComponents returns empty components for kind.
func NewComponents(kind Kind) (Components, error) {
	switch kind {
	case KindCase:
		return &CaseComponents{}, nil
	case KindStatute:
		return &StatuteComponents{}, nil
	case KindConstitution:
		return &ConstitutionComponents{}, nil
	case KindRule:
		return &RuleComponents{}, nil
	case KindSecondary:
		return &SecondaryComponents{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
}

// DecodeComponents decodes raw JSON into the components type for kind. Empty
// input yields empty components.
func DecodeComponents(kind Kind, raw json.RawMessage) (Components, error) {
	components, err := NewComponents(kind)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return components, nil
	}
	if err := json.Unmarshal(raw, components); err != nil {
		return nil, fmt.Errorf("decoding %s components: %w", kind, err)
	}
	return components, nil
}

// Pincite returns the pinpoint of the components: the page for cases and
// periodicals, the subsection for statutes, the subdivision for rules, and
// the clause for constitutions.
func Pincite(components Components) string {
	switch c := components.(type) {
	case *CaseComponents:
		return c.Pincite
	case *StatuteComponents:
		return c.Subsection
	case *ConstitutionComponents:
		return c.Clause
	case *RuleComponents:
		return c.Subdivision
	case *SecondaryComponents:
		return c.Pincite
	case nil:
		return ""
	default:
		panic(fmt.Sprintf("citation: unhandled components %T", components))
	}
}

// WithPincite returns a copy of components whose pinpoint is replaced.
func WithPincite(components Components, pincite string) Components {
	clone := components.Clone()
	switch c := clone.(type) {
	case *CaseComponents:
		c.Pincite = pincite
	case *StatuteComponents:
		c.Subsection = pincite
	case *ConstitutionComponents:
		c.Clause = pincite
	case *RuleComponents:
		c.Subdivision = pincite
	case *SecondaryComponents:
		c.Pincite = pincite
	default:
		panic(fmt.Sprintf("citation: unhandled components %T", components))
	}
	return clone
}
