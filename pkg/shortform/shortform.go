// Package shortform decides, for each citation in document order, whether it
// should be written in full, as "id.", or as a supra or other short form,
// and binds typed short forms to the full citation they refer to.
//
// Resolution is a left fold over the citations. The fold state is explicit
// and owned by the caller, so resolving two documents never shares state.
package shortform

import (
	"fmt"
	"strings"

	"github.com/coolbeans/lexcite/pkg/citation"
	"github.com/coolbeans/lexcite/pkg/format"
	"github.com/coolbeans/lexcite/pkg/reporter"
)

// Scope controls how far back an "id." may reach.
type Scope int

const (
	// ScopeDocument lets "id." refer to the previous citation anywhere
	// earlier in the document.
	ScopeDocument Scope = iota
	// ScopeSegment requires the previous citation to be in the same
	// paragraph or footnote.
	ScopeSegment
)

func (s Scope) String() string {
	switch s {
	case ScopeDocument:
		return "document"
	case ScopeSegment:
		return "segment"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// ParseScope converts a scope name, ignoring case.
func ParseScope(name string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "document":
		return ScopeDocument, nil
	case "segment":
		return ScopeSegment, nil
	default:
		return 0, fmt.Errorf("unknown short-form scope %q", name)
	}
}

// State is the fold state threaded through Step.
type State struct {
	// LastKey is the authority key of the immediately preceding citation,
	// or "" after a citation that could not be resolved.
	LastKey string

	// Seen maps each authority key to its first full citation.
	Seen map[string]*citation.Citation

	lastPincite string
	lastSegment int
	last        *citation.Citation
	recent      []*citation.Citation
}

// NewState returns an empty fold state.
func NewState() *State {
	return &State{Seen: make(map[string]*citation.Citation)}
}

// Resolver assigns short forms in one citation style.
type Resolver struct {
	Style     format.Style
	Scope     Scope
	formatter *format.Formatter
}

// NewResolver creates a resolver. A nil table selects the built-in data.
func NewResolver(table *reporter.Table, style format.Style, scope Scope) *Resolver {
	return &Resolver{Style: style, Scope: scope, formatter: format.New(table)}
}

// Resolve returns resolved copies of citations, which must be in document
// order. The input is not modified.
func (r *Resolver) Resolve(citations []*citation.Citation) []*citation.Citation {
	state := NewState()
	out := make([]*citation.Citation, 0, len(citations))
	for _, c := range citations {
		out = append(out, r.Step(state, c))
	}
	return out
}

// Step resolves one citation against state and advances it. It returns a
// copy; c itself is not modified.
func (r *Resolver) Step(state *State, c *citation.Citation) *citation.Citation {
	out := c.Clone()
	if r.Scope == ScopeSegment && state.last != nil && out.Segment != state.lastSegment {
		state.LastKey = ""
	}
	state.lastSegment = out.Segment

	if out.Form != citation.FormFull && !out.HasErrors() {
		r.bind(state, out)
	}
	if out.HasErrors() {
		if out.CanonicalForm == "" {
			out.CanonicalForm = out.RawText
		}
		out.ShortForm = ""
		state.LastKey = ""
		state.last = nil
		return out
	}

	key := out.AuthorityKey
	if key == "" {
		key = citation.AuthorityKey(out.Components)
		out.AuthorityKey = key
	}
	full := r.formatter.Render(out.Components, r.Style)
	if out.CanonicalForm == "" || out.Form != citation.FormFull {
		out.CanonicalForm = full.Text
	}
	pin := citation.Pincite(out.Components)

	var rendered format.Rendered
	if first, seen := state.Seen[key]; seen {
		if out.Antecedent == "" {
			out.Antecedent = first.ID
		}
		if key == state.LastKey {
			rendered = r.renderID(state, out, pin)
		} else {
			rendered = r.renderSubsequent(out, full)
		}
	} else {
		rendered = full
		state.Seen[key] = out
	}

	out.ShortForm = rendered.Text
	out.Emphasis = rendered.Italics

	state.LastKey = key
	state.lastPincite = pin
	state.last = out
	state.recent = append(state.recent, out)
	return out
}

func (r *Resolver) renderID(state *State, c *citation.Citation, pin string) format.Rendered {
	locator := ""
	if pin != state.lastPincite {
		locator = r.formatter.Locator(c.Components, pin, r.Style)
	}
	return r.formatter.RenderID(c.SentenceStart, locator, r.Style)
}

// renderSubsequent renders a later reference to an authority cited earlier
// but not immediately before.
func (r *Resolver) renderSubsequent(c *citation.Citation, full format.Rendered) format.Rendered {
	switch comps := c.Components.(type) {
	case *citation.CaseComponents:
		if name := citation.ShortName(comps); name != "" {
			return r.formatter.RenderSupra(name, comps.Pincite, r.Style)
		}
		return r.formatter.RenderShortCase(comps, r.Style)
	case *citation.SecondaryComponents:
		if name := citation.ShortName(comps); name != "" {
			return r.formatter.RenderSupra(name, comps.Pincite, r.Style)
		}
		return full
	case *citation.StatuteComponents:
		return format.Rendered{Text: r.formatter.Locator(comps, comps.Subsection, r.Style)}
	case *citation.ConstitutionComponents, *citation.RuleComponents:
		return full
	default:
		panic(fmt.Sprintf("shortform: unhandled components %T", c.Components))
	}
}

// bind replaces the components of a typed short form with those of the
// citation it refers to, or attaches OrphanShortForm when there is none.
func (r *Resolver) bind(state *State, c *citation.Citation) {
	typed, _ := c.Components.(*citation.CaseComponents)
	if typed == nil {
		typed = &citation.CaseComponents{}
	}

	var antecedent *citation.Citation
	switch c.Form {
	case citation.FormID:
		antecedent = state.last
	case citation.FormSupra:
		antecedent = state.findRecent(func(prior *citation.Citation) bool {
			return citation.NamesMatch(typed.PartyA, prior.Components)
		})
	case citation.FormShortCase:
		antecedent = state.findRecent(func(prior *citation.Citation) bool {
			prev, ok := prior.Components.(*citation.CaseComponents)
			if !ok || prev.Volume != typed.Volume || reporter.Key(prev.Reporter) != reporter.Key(typed.Reporter) {
				return false
			}
			return typed.PartyA == "" || citation.NamesMatch(typed.PartyA, prev)
		})
	}
	if antecedent == nil {
		c.AddError(citation.IssueOrphanShortForm, "", fmt.Sprintf("no earlier citation for %s short form", c.Form))
		c.CanonicalForm = c.RawText
		return
	}

	components := antecedent.Components.Clone()
	switch {
	case typed.Pincite != "" && !pagedKind(components.Kind()):
		c.AddWarning(citation.IssueIgnoredPincite, "pincite",
			fmt.Sprintf("page %s does not apply to a %s citation", typed.Pincite, components.Kind()))
	case typed.Pincite != "":
		components = citation.WithPincite(components, typed.Pincite)
	case c.Form != citation.FormID:
		components = citation.WithPincite(components, "")
	}
	c.Components = components
	c.AuthorityKey = antecedent.AuthorityKey
	c.Antecedent = antecedent.ID
	if root, ok := state.Seen[antecedent.AuthorityKey]; ok && root.ID != "" {
		c.Antecedent = root.ID
	}
}

// pagedKind reports whether citations of kind are pinpointed by page.
func pagedKind(kind citation.Kind) bool {
	return kind == citation.KindCase || kind == citation.KindSecondary
}

// findRecent returns the most recent resolved citation matching fn.
func (s *State) findRecent(fn func(*citation.Citation) bool) *citation.Citation {
	for i := len(s.recent) - 1; i >= 0; i-- {
		if fn(s.recent[i]) {
			return s.recent[i]
		}
	}
	return nil
}
