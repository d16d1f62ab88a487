// Package citation recognizes legal citations in free-form text and models
// them as structured records: cases, statutes, constitutional provisions,
// court rules, and secondary authority.
//
// Recognition runs in two steps. A Scanner slices text into non-overlapping
// candidate spans using an ordered grammar of pattern rules; a Parser turns
// each candidate into a Citation with components, confidence, and an
// authority key. Validation, formatting, short-form resolution, and the
// table of authorities live in their own packages and build on this model.
package citation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind classifies the kind of authority a citation refers to. The set is
// closed: each Kind has exactly one Components implementation in this package.
type Kind int

const (
	KindCase Kind = iota
	KindStatute
	KindConstitution
	KindRule
	KindSecondary
)

// Kinds lists every kind in table-of-authorities order of declaration.
var Kinds = []Kind{KindCase, KindStatute, KindConstitution, KindRule, KindSecondary}

func (k Kind) String() string {
	switch k {
	case KindCase:
		return "case"
	case KindStatute:
		return "statute"
	case KindConstitution:
		return "constitution"
	case KindRule:
		return "rule"
	case KindSecondary:
		return "secondary"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts the string form of a kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Form records whether a citation is written in full or as a short form.
type Form int

const (
	FormFull Form = iota
	FormID
	FormSupra
	FormShortCase // 410 U.S. at 115
)

func (f Form) String() string {
	switch f {
	case FormFull:
		return "full"
	case FormID:
		return "id"
	case FormSupra:
		return "supra"
	case FormShortCase:
		return "short_case"
	default:
		return fmt.Sprintf("form(%d)", int(f))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Form) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Form) UnmarshalText(text []byte) error {
	for _, candidate := range []Form{FormFull, FormID, FormSupra, FormShortCase} {
		if string(text) == candidate.String() {
			*f = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown citation form %q", string(text))
}

// Span is a half-open byte range [Start, End).
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes in the span.
func (s Span) Len() int { return s.End - s.Start }

// Overlaps reports whether the two spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// IssueCode identifies a validation or resolution finding.
type IssueCode string

const (
	// Warnings: the citation is kept and formatted from best-effort data.
	IssueMissingComponent IssueCode = "MissingComponent"
	IssueUnknownReporter  IssueCode = "UnknownReporter"
	IssueImplausibleYear  IssueCode = "ImplausibleYear"
	IssueIgnoredPincite   IssueCode = "IgnoredPincite"

	// Errors: the citation is kept but rendered as its raw text.
	IssueIncompleteCaseCitation IssueCode = "IncompleteCaseCitation"
	IssueOrphanShortForm        IssueCode = "OrphanShortForm"
)

// Issue is a finding attached to a citation.
type Issue struct {
	Code      IssueCode `json:"code"`
	Message   string    `json:"message"`
	Component string    `json:"component,omitempty"`
}

// Citation is one recognized citation in a document.
type Citation struct {
	// ID is stable across re-parses of unchanged text at the same offset.
	ID string

	// RawText is the exact source substring; Span locates it in the source.
	RawText string
	Span    Span

	Components Components
	Form       Form

	Confidence   float64
	AuthorityKey string

	// CanonicalForm is the full rendering in the selected style. ShortForm is
	// set by short-form resolution and is what a document should display.
	CanonicalForm string
	ShortForm     string

	// Emphasis lists the italic ranges of Display().
	Emphasis []Span

	// Antecedent is the ID of the full citation a short form refers to.
	Antecedent string

	// Page is 1-based, counted by form feeds; Segment is the 0-based
	// paragraph index.
	Page          int
	Segment       int
	SentenceStart bool

	Warnings []Issue
	Errors   []Issue
}

// Kind returns the kind carried by the components.
func (c *Citation) Kind() Kind {
	if c.Components == nil {
		return KindCase
	}
	return c.Components.Kind()
}

// Display returns the text a document should show for this citation.
func (c *Citation) Display() string {
	if c.ShortForm != "" {
		return c.ShortForm
	}
	if c.CanonicalForm != "" {
		return c.CanonicalForm
	}
	return c.RawText
}

// HasErrors reports whether the citation carries a fatal-to-format error.
func (c *Citation) HasErrors() bool {
	return len(c.Errors) > 0
}

// HasIssue reports whether a warning or error with code is attached.
func (c *Citation) HasIssue(code IssueCode) bool {
	for _, issue := range c.Warnings {
		if issue.Code == code {
			return true
		}
	}
	for _, issue := range c.Errors {
		if issue.Code == code {
			return true
		}
	}
	return false
}

// AddWarning attaches a warning unless an identical one is present.
func (c *Citation) AddWarning(code IssueCode, component, message string) {
	c.Warnings = appendIssue(c.Warnings, Issue{Code: code, Component: component, Message: message})
}

// AddError attaches an error unless an identical one is present.
func (c *Citation) AddError(code IssueCode, component, message string) {
	c.Errors = appendIssue(c.Errors, Issue{Code: code, Component: component, Message: message})
}

func appendIssue(issues []Issue, issue Issue) []Issue {
	for _, existing := range issues {
		if existing == issue {
			return issues
		}
	}
	return append(issues, issue)
}

// Clone returns a deep copy.
func (c *Citation) Clone() *Citation {
	if c == nil {
		return nil
	}
	clone := *c
	if c.Components != nil {
		clone.Components = c.Components.Clone()
	}
	clone.Emphasis = append([]Span(nil), c.Emphasis...)
	clone.Warnings = append([]Issue(nil), c.Warnings...)
	clone.Errors = append([]Issue(nil), c.Errors...)
	return &clone
}

// CloneAll deep-copies a citation sequence.
func CloneAll(citations []*Citation) []*Citation {
	out := make([]*Citation, len(citations))
	for i, c := range citations {
		out[i] = c.Clone()
	}
	return out
}

type citationJSON struct {
	ID            string          `json:"id,omitempty"`
	Kind          Kind            `json:"kind"`
	Form          Form            `json:"form"`
	RawText       string          `json:"raw_text"`
	Span          Span            `json:"span"`
	Components    json.RawMessage `json:"components"`
	Confidence    float64         `json:"confidence"`
	AuthorityKey  string          `json:"authority_key,omitempty"`
	CanonicalForm string          `json:"canonical_form,omitempty"`
	ShortForm     string          `json:"short_form,omitempty"`
	Emphasis      []Span          `json:"emphasis,omitempty"`
	Antecedent    string          `json:"antecedent,omitempty"`
	Page          int             `json:"page,omitempty"`
	Segment       int             `json:"segment,omitempty"`
	SentenceStart bool            `json:"sentence_start,omitempty"`
	Warnings      []Issue         `json:"warnings,omitempty"`
	Errors        []Issue         `json:"errors,omitempty"`
}

// MarshalJSON encodes the citation with an explicit kind tag.
func (c *Citation) MarshalJSON() ([]byte, error) {
	components := c.Components
	if components == nil {
		components = &CaseComponents{}
	}
	raw, err := json.Marshal(components)
	if err != nil {
		return nil, fmt.Errorf("encoding components: %w", err)
	}
	return json.Marshal(citationJSON{
		ID:            c.ID,
		Kind:          components.Kind(),
		Form:          c.Form,
		RawText:       c.RawText,
		Span:          c.Span,
		Components:    raw,
		Confidence:    c.Confidence,
		AuthorityKey:  c.AuthorityKey,
		CanonicalForm: c.CanonicalForm,
		ShortForm:     c.ShortForm,
		Emphasis:      c.Emphasis,
		Antecedent:    c.Antecedent,
		Page:          c.Page,
		Segment:       c.Segment,
		SentenceStart: c.SentenceStart,
		Warnings:      c.Warnings,
		Errors:        c.Errors,
	})
}

// UnmarshalJSON decodes a citation produced by MarshalJSON.
func (c *Citation) UnmarshalJSON(data []byte) error {
	var decoded citationJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	components, err := DecodeComponents(decoded.Kind, decoded.Components)
	if err != nil {
		return err
	}
	*c = Citation{
		ID:            decoded.ID,
		RawText:       decoded.RawText,
		Span:          decoded.Span,
		Components:    components,
		Form:          decoded.Form,
		Confidence:    decoded.Confidence,
		AuthorityKey:  decoded.AuthorityKey,
		CanonicalForm: decoded.CanonicalForm,
		ShortForm:     decoded.ShortForm,
		Emphasis:      decoded.Emphasis,
		Antecedent:    decoded.Antecedent,
		Page:          decoded.Page,
		Segment:       decoded.Segment,
		SentenceStart: decoded.SentenceStart,
		Warnings:      decoded.Warnings,
		Errors:        decoded.Errors,
	}
	return nil
}
