package shortform

import (
	"testing"

	"github.com/coolbeans/lexcite/pkg/citation"
	"github.com/coolbeans/lexcite/pkg/format"
)

func fullCase(id, partyA, partyB, volume, rep, page, pin string) *citation.Citation {
	c := &citation.Citation{
		ID:   id,
		Form: citation.FormFull,
		Components: &citation.CaseComponents{
			PartyA: partyA, PartyB: partyB, Volume: volume, Reporter: rep,
			FirstPage: page, Pincite: pin, Court: "U.S.",
		},
		Confidence: 1,
	}
	c.RawText = format.New(nil).Format(c.Components, format.StyleBluebook)
	return c
}

func shortForms(citations []*citation.Citation) []string {
	out := make([]string, len(citations))
	for i, c := range citations {
		out[i] = c.Display()
	}
	return out
}

func assertForms(t *testing.T, expected, got []string) {
	t.Helper()
	if len(expected) != len(got) {
		t.Fatalf("Expected %d citations, got %d: %q", len(expected), len(got), got)
	}
	for i := range expected {
		if expected[i] != got[i] {
			t.Errorf("Citation %d: expected %q, got %q", i, expected[i], got[i])
		}
	}
}

func TestResolveInterruptedSequence(t *testing.T) {
	roe := fullCase("a", "Roe", "Wade", "410", "U.S.", "113", "")
	brown := fullCase("b", "Brown", "Board of Education", "347", "U.S.", "483", "")

	resolver := NewResolver(nil, format.StyleBluebook, ScopeDocument)
	resolved := resolver.Resolve([]*citation.Citation{roe, roe, brown, roe})

	assertForms(t, []string{
		"Roe v. Wade, 410 U.S. 113",
		"id.",
		"Brown v. Board of Education, 347 U.S. 483",
		"Roe, supra",
	}, shortForms(resolved))

	if resolved[1].Antecedent != "a" || resolved[3].Antecedent != "a" {
		t.Errorf("Expected antecedent a, got %q and %q", resolved[1].Antecedent, resolved[3].Antecedent)
	}
}

func TestResolveIDPincite(t *testing.T) {
	resolver := NewResolver(nil, format.StyleBluebook, ScopeDocument)
	resolved := resolver.Resolve([]*citation.Citation{
		fullCase("a", "Roe", "Wade", "410", "U.S.", "113", "115"),
		fullCase("a2", "Roe", "Wade", "410", "U.S.", "113", "115"),
		fullCase("a3", "Roe", "Wade", "410", "U.S.", "113", "118-119"),
	})

	assertForms(t, []string{
		"Roe v. Wade, 410 U.S. 113, 115",
		"id.",
		"id. at 118–19",
	}, shortForms(resolved))
}

func TestResolveScenarioTypedID(t *testing.T) {
	parser := citation.NewParser(nil)
	text := "See 410 U.S. 113. Id. at 115."
	citations := parser.ParseAll(text)

	resolved := NewResolver(nil, format.StyleBluebook, ScopeDocument).Resolve(citations)
	assertForms(t, []string{"410 U.S. 113", "Id. at 115"}, shortForms(resolved))

	if resolved[1].AuthorityKey != resolved[0].AuthorityKey {
		t.Errorf("Expected id. bound to %q, got %q", resolved[0].AuthorityKey, resolved[1].AuthorityKey)
	}
	if resolved[1].CanonicalForm != "410 U.S. 113, 115" {
		t.Errorf("Expected canonical full form of the bound citation, got %q", resolved[1].CanonicalForm)
	}
}

func TestResolveTypedShortForms(t *testing.T) {
	parser := citation.NewParser(nil)
	text := "Roe v. Wade, 410 U.S. 113 (1973). Brown v. Board of Education, 347 U.S. 483 (1954). " +
		"Roe, supra, at 115. Brown, 347 U.S. at 495."
	resolved := NewResolver(nil, format.StyleBluebook, ScopeDocument).Resolve(parser.ParseAll(text))

	assertForms(t, []string{
		"Roe v. Wade, 410 U.S. 113 (1973)",
		"Brown v. Board of Education, 347 U.S. 483 (1954)",
		"Roe, supra, at 115",
		"Brown, supra, at 495",
	}, shortForms(resolved))

	for _, c := range resolved {
		if c.HasErrors() {
			t.Errorf("Expected no errors, got %v on %q", c.Errors, c.RawText)
		}
	}
}

func TestResolveOrphanShortForms(t *testing.T) {
	parser := citation.NewParser(nil)

	cases := []struct {
		name string
		text string
	}{
		{"id_first", "Id. at 5."},
		{"supra_unknown_name", "Roe v. Wade, 410 U.S. 113. Smith, supra, at 4."},
		{"short_case_unknown_volume", "Roe v. Wade, 410 U.S. 113. 999 U.S. at 4."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resolved := NewResolver(nil, format.StyleBluebook, ScopeDocument).Resolve(parser.ParseAll(tc.text))
			orphan := resolved[len(resolved)-1]
			if !orphan.HasIssue(citation.IssueOrphanShortForm) {
				t.Fatalf("Expected OrphanShortForm on %q", orphan.RawText)
			}
			if orphan.Display() != orphan.RawText {
				t.Errorf("Expected raw text %q, got %q", orphan.RawText, orphan.Display())
			}
		})
	}
}

func TestResolveErrorResetsLast(t *testing.T) {
	roe := fullCase("a", "Roe", "Wade", "410", "U.S.", "113", "")
	broken := &citation.Citation{RawText: "413 U.S.", Form: citation.FormFull, Components: &citation.CaseComponents{Volume: "413", Reporter: "U.S."}}
	broken.AddError(citation.IssueIncompleteCaseCitation, "first_page", "missing page")

	resolved := NewResolver(nil, format.StyleBluebook, ScopeDocument).Resolve([]*citation.Citation{roe, broken, roe})
	assertForms(t, []string{"Roe v. Wade, 410 U.S. 113", "413 U.S.", "Roe, supra"}, shortForms(resolved))
}

func TestResolveSegmentScope(t *testing.T) {
	first := fullCase("a", "Roe", "Wade", "410", "U.S.", "113", "")
	second := fullCase("a", "Roe", "Wade", "410", "U.S.", "113", "")
	second.Segment = 1

	cases := []struct {
		name     string
		scope    Scope
		expected string
	}{
		{"document", ScopeDocument, "id."},
		{"segment", ScopeSegment, "Roe, supra"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resolved := NewResolver(nil, format.StyleBluebook, tc.scope).Resolve([]*citation.Citation{first, second})
			if got := resolved[1].Display(); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestResolveOtherKinds(t *testing.T) {
	statute := &citation.Citation{Form: citation.FormFull, Components: &citation.StatuteComponents{Title: "42", Code: "U.S.C.", Section: "1983"}}
	rule := &citation.Citation{Form: citation.FormFull, Components: &citation.RuleComponents{Body: "Fed. R. Civ. P.", Number: "12", Subdivision: "(b)(6)"}}
	unnamed := &citation.Citation{Form: citation.FormFull, Components: &citation.CaseComponents{Volume: "410", Reporter: "U.S.", FirstPage: "113", Pincite: "115"}}

	resolved := NewResolver(nil, format.StyleBluebook, ScopeDocument).Resolve([]*citation.Citation{statute, rule, unnamed, statute, rule, unnamed})
	assertForms(t, []string{
		"42 U.S.C. § 1983",
		"Fed. R. Civ. P. 12(b)(6)",
		"410 U.S. 113, 115",
		"§ 1983",
		"Fed. R. Civ. P. 12(b)(6)",
		"410 U.S. at 115",
	}, shortForms(resolved))
}

func TestResolveChicagoIbid(t *testing.T) {
	roe := fullCase("a", "Roe", "Wade", "410", "U.S.", "113", "115")
	again := fullCase("a", "Roe", "Wade", "410", "U.S.", "113", "117")

	resolved := NewResolver(nil, format.StyleChicago, ScopeDocument).Resolve([]*citation.Citation{roe, again})
	if got := resolved[1].Display(); got != "Ibid., 117" {
		t.Errorf("Expected %q, got %q", "Ibid., 117", got)
	}
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	roe := fullCase("a", "Roe", "Wade", "410", "U.S.", "113", "")
	input := []*citation.Citation{roe, roe}

	NewResolver(nil, format.StyleBluebook, ScopeDocument).Resolve(input)
	if roe.ShortForm != "" || roe.AuthorityKey != "" {
		t.Errorf("Expected input untouched, got short form %q key %q", roe.ShortForm, roe.AuthorityKey)
	}
}

func TestParseScope(t *testing.T) {
	for _, tc := range []struct {
		input    string
		expected Scope
	}{{"", ScopeDocument}, {"Document", ScopeDocument}, {"segment", ScopeSegment}} {
		got, err := ParseScope(tc.input)
		if err != nil || got != tc.expected {
			t.Errorf("Expected %v for %q, got %v (%v)", tc.expected, tc.input, got, err)
		}
	}
	if _, err := ParseScope("footnote"); err == nil {
		t.Error("Expected error for unknown scope")
	}
}

func TestResolveTypedIDPageAfterUnpagedKind(t *testing.T) {
	parser := citation.NewParser(nil)

	cases := []struct {
		name      string
		text      string
		canonical string
	}{
		{"statute", "42 U.S.C. § 1983. Id. at 5.", "42 U.S.C. § 1983"},
		{"statute_subsection", "42 U.S.C. § 1983(a). Id. at 5.", "42 U.S.C. § 1983(a)"},
		{"rule", "Fed. R. Civ. P. 56. Id. at 116.", "Fed. R. Civ. P. 56"},
		{"constitution", "U.S. Const. art. I, § 8, cl. 3. Id. at 9.", "U.S. Const. art. I, § 8, cl. 3"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resolved := NewResolver(nil, format.StyleBluebook, ScopeDocument).Resolve(parser.ParseAll(tc.text))
			if len(resolved) != 2 {
				t.Fatalf("Expected 2 citations, got %d", len(resolved))
			}
			id := resolved[1]
			if id.CanonicalForm != tc.canonical {
				t.Errorf("Expected canonical %q, got %q", tc.canonical, id.CanonicalForm)
			}
			if id.Display() != "Id." {
				t.Errorf("Expected %q, got %q", "Id.", id.Display())
			}
			if !id.HasIssue(citation.IssueIgnoredPincite) {
				t.Errorf("Expected IgnoredPincite warning, got %v", id.Warnings)
			}
			if id.HasErrors() {
				t.Errorf("Expected no errors, got %v", id.Errors)
			}
		})
	}
}

func TestResolveTypedIDPageAfterCase(t *testing.T) {
	parser := citation.NewParser(nil)
	resolved := NewResolver(nil, format.StyleBluebook, ScopeDocument).Resolve(parser.ParseAll("Roe v. Wade, 410 U.S. 113 (1973). Id. at 116."))
	if got := resolved[1].CanonicalForm; got != "Roe v. Wade, 410 U.S. 113, 116 (1973)" {
		t.Errorf("Expected the page carried onto the case, got %q", got)
	}
	if resolved[1].HasIssue(citation.IssueIgnoredPincite) {
		t.Error("Expected no IgnoredPincite warning for a case")
	}
}
