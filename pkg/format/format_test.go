package format

import (
	"errors"
	"reflect"
	"testing"

	"github.com/coolbeans/lexcite/pkg/citation"
)

func TestFormatBluebook(t *testing.T) {
	f := New(nil)

	cases := []struct {
		name       string
		components citation.Components
		expected   string
	}{
		{
			name:       "supreme_court_omits_court",
			components: &citation.CaseComponents{PartyA: "Roe", PartyB: "Wade", Volume: "410", Reporter: "U.S.", FirstPage: "113", Pincite: "115", Court: "U.S.", Year: "1973"},
			expected:   "Roe v. Wade, 410 U.S. 113, 115 (1973)",
		},
		{
			name:       "circuit_court_kept",
			components: &citation.CaseComponents{PartyA: "Smith", PartyB: "Jones", Volume: "123", Reporter: "F.3d", FirstPage: "456", Pincite: "460", Court: "3d Cir.", Year: "1997"},
			expected:   "Smith v. Jones, 123 F.3d 456, 460 (3d Cir. 1997)",
		},
		{
			name:       "range_pincite",
			components: &citation.CaseComponents{PartyA: "Roe", PartyB: "Wade", Volume: "410", Reporter: "U.S.", FirstPage: "113", Pincite: "118-119", Court: "U.S.", Year: "1973"},
			expected:   "Roe v. Wade, 410 U.S. 113, 118–19 (1973)",
		},
		{
			name:       "no_parties_no_year",
			components: &citation.CaseComponents{Volume: "410", Reporter: "U.S.", FirstPage: "113", Court: "U.S."},
			expected:   "410 U.S. 113",
		},
		{
			name:       "pincite_without_page",
			components: &citation.CaseComponents{Volume: "413", Reporter: "U.S.", Pincite: "20"},
			expected:   "413 U.S. at 20",
		},
		{
			name:       "statute_subsection",
			components: &citation.StatuteComponents{Title: "42", Code: "U.S.C.", Section: "1983", Subsection: "(a)(1)"},
			expected:   "42 U.S.C. § 1983(a)(1)",
		},
		{
			name:       "statute_et_seq_year",
			components: &citation.StatuteComponents{Title: "15", Code: "U.S.C.", Section: "1681", EtSeq: true, Year: "2018"},
			expected:   "15 U.S.C. § 1681 et seq. (2018)",
		},
		{
			name:       "statute_without_title",
			components: &citation.StatuteComponents{Code: "P.S.", Section: "101"},
			expected:   "P.S. § 101",
		},
		{
			name:       "constitution_article",
			components: &citation.ConstitutionComponents{Jurisdiction: "U.S.", Article: "I", Section: "8", Clause: "3"},
			expected:   "U.S. Const. art. I, § 8, cl. 3",
		},
		{
			name:       "constitution_amendment",
			components: &citation.ConstitutionComponents{Jurisdiction: "U.S.", Amendment: "XIV", Section: "1"},
			expected:   "U.S. Const. amend. XIV, § 1",
		},
		{
			name:       "constitution_preamble",
			components: &citation.ConstitutionComponents{Jurisdiction: "U.S.", Preamble: true},
			expected:   "U.S. Const. pmbl.",
		},
		{
			name:       "federal_rule",
			components: &citation.RuleComponents{Body: "Fed. R. Civ. P.", Number: "12", Subdivision: "(b)(6)"},
			expected:   "Fed. R. Civ. P. 12(b)(6)",
		},
		{
			name:       "numbered_rule",
			components: &citation.RuleComponents{Body: "Pa.R.C.P.", Number: "1035.2"},
			expected:   "Pa.R.C.P. No. 1035.2",
		},
		{
			name:       "bare_rule",
			components: &citation.RuleComponents{Number: "12", Subdivision: "(b)"},
			expected:   "Rule 12(b)",
		},
		{
			name:       "journal",
			components: &citation.SecondaryComponents{Volume: "4", Journal: "Harv. L. Rev.", Page: "193", Pincite: "195", Year: "1890"},
			expected:   "4 Harv. L. Rev. 193, 195 (1890)",
		},
		{
			name:       "article_with_author",
			components: &citation.SecondaryComponents{Author: "Samuel D. Warren & Louis D. Brandeis", Title: "The Right to Privacy", Volume: "4", Journal: "Harv. L. Rev.", Page: "193", Year: "1890"},
			expected:   "Samuel D. Warren & Louis D. Brandeis, The Right to Privacy, 4 Harv. L. Rev. 193 (1890)",
		},
		{
			name:       "restatement",
			components: &citation.SecondaryComponents{Title: "Restatement (Second) of Torts", Section: "402A", Year: "1965"},
			expected:   "Restatement (Second) of Torts § 402A (Am. L. Inst. 1965)",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.Format(tc.components, StyleBluebook); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestFormatStyles(t *testing.T) {
	f := New(nil)
	roe := &citation.CaseComponents{PartyA: "Roe", PartyB: "Wade", Volume: "410", Reporter: "U.S.", FirstPage: "113", Pincite: "118-119", Court: "U.S.", Year: "1973"}
	smith := &citation.CaseComponents{PartyA: "Smith", PartyB: "Jones", Volume: "560", Reporter: "S. Ct.", FirstPage: "10", Court: "U.S.", Year: "2010"}
	statute := &citation.StatuteComponents{Title: "42", Code: "U.S.C.", Section: "1983"}
	constitution := &citation.ConstitutionComponents{Jurisdiction: "U.S.", Article: "I", Section: "8"}
	article := &citation.SecondaryComponents{Author: "Warren", Title: "The Right to Privacy", Volume: "4", Journal: "Harv. L. Rev.", Page: "193", Year: "1890"}
	restatement := &citation.SecondaryComponents{Title: "Restatement (Second) of Torts", Section: "402A", Year: "1965"}

	cases := []struct {
		name       string
		components citation.Components
		style      Style
		expected   string
	}{
		{"alwd_full_range", roe, StyleALWD, "Roe v. Wade, 410 U.S. 113, 118-119 (1973)"},
		{"chicago_full_range", roe, StyleChicago, "Roe v. Wade, 410 U.S. 113, 118–119 (1973)"},
		{"bluebook_implied_court", smith, StyleBluebook, "Smith v. Jones, 560 S. Ct. 10 (2010)"},
		{"alwd_keeps_court", smith, StyleALWD, "Smith v. Jones, 560 S. Ct. 10 (U.S. 2010)"},
		{"chicago_section_word", statute, StyleChicago, "42 U.S.C. sec. 1983"},
		{"alwd_section_symbol", statute, StyleALWD, "42 U.S.C. § 1983"},
		{"chicago_constitution", constitution, StyleChicago, "U.S. Const. art. I, sec. 8"},
		{"chicago_quoted_title", article, StyleChicago, "Warren, “The Right to Privacy,” 4 Harv. L. Rev. 193 (1890)"},
		{"alwd_restatement_year", restatement, StyleALWD, "Restatement (Second) of Torts § 402A (1965)"},
		{"chicago_restatement_section_word", restatement, StyleChicago, "Restatement (Second) of Torts sec. 402A (1965)"},
		{"alwd_infers_implied_court", &citation.CaseComponents{PartyA: "Doe", PartyB: "Roe", Volume: "12", Reporter: "S. Ct.", FirstPage: "34", Year: "2001"}, StyleALWD, "Doe v. Roe, 12 S. Ct. 34 (U.S. 2001)"},
		{"alwd_omits_inferred_us_court", &citation.CaseComponents{PartyA: "Roe", PartyB: "Wade", Volume: "410", Reporter: "U.S.", FirstPage: "113", Year: "1973"}, StyleALWD, "Roe v. Wade, 410 U.S. 113 (1973)"},
		{"bluebook_plural_sections", &citation.StatuteComponents{Title: "18", Code: "U.S.C.", Section: "1961-1968", Plural: true}, StyleBluebook, "18 U.S.C. §§ 1961-1968"},
		{"chicago_plural_sections", &citation.StatuteComponents{Title: "18", Code: "U.S.C.", Section: "1961-1968", Plural: true}, StyleChicago, "18 U.S.C. secs. 1961-1968"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.Format(tc.components, tc.style); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestFormatIsIdempotentThroughParse(t *testing.T) {
	f := New(nil)
	parser := citation.NewParser(nil)

	inputs := []string{
		"Roe v. Wade, 410 U.S. 113, 115 (1973)",
		"Roe v. Wade, 410 U.S. 113, 118–19 (1973)",
		"Smith v. Jones, 123 F.3d 456, 460 (3d Cir. 1997)",
		"Smith v. Jones, 560 S. Ct. 10 (2010)",
		"Commonwealth v. Doe, 900 A.2d 1 (Pa. Super. Ct. 2006)",
		"In re Gault, 387 U.S. 1 (1967)",
		"42 U.S.C. § 1983(a)(1)",
		"15 U.S.C. Section 1681",
		"18 U.S.C. §§ 1961-1968",
		"42 Pa. C.S. § 5524",
		"U.S. Const. art. I, § 8, cl. 3",
		"U.S. Const. amend. XIV, § 1",
		"Fed. R. Civ. P. 12(b)(6)",
		"Pa.R.C.P. No. 1035.2",
		"4 Harv. L. Rev. 193, 195 (1890)",
		"Restatement (Second) of Torts § 402A (Am. L. Inst. 1965)",
	}
	var components []citation.Components
	for _, input := range inputs {
		c, ok := parser.ParseOne(input)
		if !ok {
			t.Fatalf("Expected %q to parse", input)
		}
		components = append(components, c.Components)
	}
	components = append(components,
		&citation.CaseComponents{PartyA: "Doe", PartyB: "Roe", Volume: "12", Reporter: "S. Ct.", FirstPage: "34", Year: "2001"},
		&citation.CaseComponents{PartyA: "Doe", PartyB: "Roe", Volume: "12", Reporter: "Pa. Super.", FirstPage: "34", Year: "2001"},
		&citation.CaseComponents{PartyA: "Doe", PartyB: "Roe", Volume: "12", Reporter: "F.3d", FirstPage: "34", Pincite: "36-40", Court: "9th Cir.", Year: "2001"},
		&citation.StatuteComponents{Title: "18", Code: "U.S.C.", Section: "1961-1968", Plural: true},
		&citation.SecondaryComponents{Title: "Restatement (Second) of Torts", Section: "402A", Year: "1965"},
	)

	for _, style := range Styles {
		for _, c := range components {
			once := f.Format(c, style)
			t.Run(style.String()+"/"+once, func(t *testing.T) {
				second, ok := parser.ParseOne(once)
				if !ok {
					t.Fatalf("Expected formatted %q to parse", once)
				}
				if twice := f.Format(second.Components, style); twice != once {
					t.Errorf("Expected %q after reformatting, got %q", once, twice)
				}
				if second.RawText != once {
					t.Errorf("Expected the whole of %q to be recognized, got %q", once, second.RawText)
				}
			})
		}
	}
}

func TestRenderItalics(t *testing.T) {
	f := New(nil)
	rendered := f.Render(&citation.CaseComponents{PartyA: "Roe", PartyB: "Wade", Volume: "410", Reporter: "U.S.", FirstPage: "113", Court: "U.S.", Year: "1973"}, StyleBluebook)

	expected := []citation.Span{{Start: 0, End: 11}}
	if !reflect.DeepEqual(rendered.Italics, expected) {
		t.Errorf("Expected italics %v, got %v", expected, rendered.Italics)
	}
	if got := rendered.Markup("_", "_"); got != "_Roe v. Wade_, 410 U.S. 113 (1973)" {
		t.Errorf("Expected markup with underscores, got %q", got)
	}

	statute := f.Render(&citation.StatuteComponents{Title: "15", Code: "U.S.C.", Section: "1681", EtSeq: true}, StyleBluebook)
	if got := statute.Markup("<em>", "</em>"); got != "15 U.S.C. § 1681 <em>et seq.</em>" {
		t.Errorf("Expected et seq. in italics, got %q", got)
	}
}

func TestRenderHTMLEscapes(t *testing.T) {
	f := New(nil)
	rendered := f.Render(&citation.CaseComponents{PartyA: "AT&T Corp.", PartyB: "Iowa Utils. Bd.", Volume: "525", Reporter: "U.S.", FirstPage: "366", Court: "U.S.", Year: "1999"}, StyleBluebook)

	expected := "<i>AT&amp;T Corp. v. Iowa Utils. Bd.</i>, 525 U.S. 366 (1999)"
	if got := rendered.HTML(); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestRenderCitationWithErrorsUsesRawText(t *testing.T) {
	f := New(nil)
	c := &citation.Citation{
		RawText:    "413 U.S.",
		Components: &citation.CaseComponents{Volume: "413", Reporter: "U.S."},
	}
	c.AddError(citation.IssueIncompleteCaseCitation, "first_page", "no page")

	if got := f.RenderCitation(c, StyleBluebook).Text; got != "413 U.S." {
		t.Errorf("Expected raw text, got %q", got)
	}
}

func TestRenderUnknownComponentsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for nil components")
		}
	}()
	New(nil).Render(nil, StyleBluebook)
}

func TestParseStyle(t *testing.T) {
	cases := []struct {
		input    string
		expected Style
	}{
		{"bluebook", StyleBluebook},
		{"ALWD", StyleALWD},
		{" Chicago ", StyleChicago},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseStyle(tc.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}

	if _, err := ParseStyle("mla"); !errors.Is(err, ErrUnknownStyle) {
		t.Errorf("Expected ErrUnknownStyle, got %v", err)
	}

	var s Style
	if err := s.UnmarshalText([]byte("alwd")); err != nil || s != StyleALWD {
		t.Errorf("Expected alwd from UnmarshalText, got %v (%v)", s, err)
	}
}
