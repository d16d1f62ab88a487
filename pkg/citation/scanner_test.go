package citation

import (
	"testing"

	"github.com/coolbeans/lexcite/pkg/reporter"
)

func syntheticScanner(t *testing.T, patterns ...[2]string) *Scanner {
	t.Helper()
	rules := make([]*Rule, 0, len(patterns))
	for _, p := range patterns {
		rule, err := NewRule(p[0], KindCase, FormFull, p[1])
		if err != nil {
			t.Fatalf("NewRule(%q) failed: %v", p[0], err)
		}
		rules = append(rules, rule)
	}
	return NewScannerWithRules(reporter.Default(), rules)
}

func candidateNames(candidates []Candidate) []string {
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Rule.Name
	}
	return names
}

func TestScannerTieBreak(t *testing.T) {
	cases := []struct {
		name     string
		patterns [][2]string
		text     string
		expected []string
		spans    []Span
	}{
		{
			name:     "longest_match_wins_over_priority",
			patterns: [][2]string{{"short", `abc`}, {"long", `abcdef`}},
			text:     "xx abcdef yy",
			expected: []string{"long"},
			spans:    []Span{{3, 9}},
		},
		{
			name:     "equal_length_goes_to_higher_priority",
			patterns: [][2]string{{"first", `abc`}, {"second", `[a-c]{3}`}},
			text:     "abc",
			expected: []string{"first"},
			spans:    []Span{{0, 3}},
		},
		{
			name:     "equal_length_priority_reversed",
			patterns: [][2]string{{"second", `[a-c]{3}`}, {"first", `abc`}},
			text:     "abc",
			expected: []string{"second"},
			spans:    []Span{{0, 3}},
		},
		{
			name:     "partial_overlap_keeps_longer",
			patterns: [][2]string{{"left", `abcd`}, {"right", `cdefgh`}},
			text:     "abcdefgh",
			expected: []string{"right"},
			spans:    []Span{{2, 8}},
		},
		{
			name:     "disjoint_matches_in_source_order",
			patterns: [][2]string{{"digits", `\d+`}, {"word", `[a-z]+`}},
			text:     "abc 123",
			expected: []string{"word", "digits"},
			spans:    []Span{{0, 3}, {4, 7}},
		},
		{
			name:     "no_match",
			patterns: [][2]string{{"digits", `\d+`}},
			text:     "no numbers here",
			expected: []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			scanner := syntheticScanner(t, tc.patterns...)
			candidates := scanner.Scan(tc.text)
			if candidates == nil {
				t.Fatal("Expected non-nil candidate slice")
			}
			names := candidateNames(candidates)
			if len(names) != len(tc.expected) {
				t.Fatalf("Expected %v, got %v", tc.expected, names)
			}
			for i := range names {
				if names[i] != tc.expected[i] {
					t.Errorf("Expected candidate %d from %q, got %q", i, tc.expected[i], names[i])
				}
			}
			for i, span := range tc.spans {
				if candidates[i].Span != span {
					t.Errorf("Expected span %v, got %v", span, candidates[i].Span)
				}
			}
		})
	}
}

func TestScannerTieBreakIsDeterministic(t *testing.T) {
	scanner := syntheticScanner(t,
		[2]string{"a", `ab`},
		[2]string{"b", `bc`},
		[2]string{"c", `[a-z]{2}`},
	)
	first := candidateNames(scanner.Scan("abc abc abc"))
	for i := 0; i < 20; i++ {
		again := candidateNames(scanner.Scan("abc abc abc"))
		if len(again) != len(first) {
			t.Fatalf("Expected %v, got %v", first, again)
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("Expected %v, got %v", first, again)
			}
		}
	}
}

func TestScannerRulePriorities(t *testing.T) {
	rules := NewScanner(nil).Rules()
	if len(rules) == 0 {
		t.Fatal("Expected standard rules")
	}
	for i, rule := range rules {
		if rule.Priority() != i {
			t.Errorf("Expected rule %q to have priority %d, got %d", rule.Name, i, rule.Priority())
		}
	}
	if rules[0].Kind != KindCase || rules[0].Form != FormFull {
		t.Errorf("Expected full case citations first, got %v %v", rules[0].Kind, rules[0].Form)
	}
	last := rules[len(rules)-1]
	if last.Form == FormFull {
		t.Errorf("Expected short forms last, got %q", last.Name)
	}
}

func TestScannerKinds(t *testing.T) {
	scanner := NewScanner(nil)

	cases := []struct {
		name     string
		text     string
		expected []Kind
	}{
		{"case", "Roe v. Wade, 410 U.S. 113 (1973).", []Kind{KindCase}},
		{"statute_not_case", "under 42 U.S.C. § 1983", []Kind{KindStatute}},
		{"pa_statute", "42 Pa.C.S. § 5524", []Kind{KindStatute}},
		{"constitution", "U.S. Const. art. I, § 8, cl. 3", []Kind{KindConstitution}},
		{"rule", "Fed. R. Civ. P. 12(b)(6)", []Kind{KindRule}},
		{"journal_not_case", "4 Harv. L. Rev. 193 (1890)", []Kind{KindSecondary}},
		{"mixed", "See 410 U.S. 113; 42 U.S.C. § 1983; Rule 9.", []Kind{KindCase, KindStatute, KindRule}},
		{"plain_text", "The parties met on Tuesday.", []Kind{}},
		{"unknown_reporter_without_page", "volume 3 Xyz. was lost", []Kind{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			candidates := scanner.Scan(tc.text)
			if len(candidates) != len(tc.expected) {
				t.Fatalf("Expected %d candidates, got %d: %v", len(tc.expected), len(candidates), candidateNames(candidates))
			}
			for i, kind := range tc.expected {
				if candidates[i].Kind != kind {
					t.Errorf("Expected candidate %d kind %v, got %v", i, kind, candidates[i].Kind)
				}
			}
		})
	}
}

func TestScannerTrimsSignals(t *testing.T) {
	scanner := NewScanner(nil)

	cases := []struct {
		name     string
		text     string
		expected string
	}{
		{"see", "See Roe v. Wade, 410 U.S. 113 (1973)", "Roe v. Wade, 410 U.S. 113 (1973)"},
		{"see_also", "See also Roe v. Wade, 410 U.S. 113", "Roe v. Wade, 410 U.S. 113"},
		{"in", "In Brown v. Board of Education, 347 U.S. 483 (1954)", "Brown v. Board of Education, 347 U.S. 483 (1954)"},
		{"in_re_kept", "In re Gault, 387 U.S. 1 (1967)", "In re Gault, 387 U.S. 1 (1967)"},
		{"supra_signal", "See Roe, supra, at 115", "Roe, supra, at 115"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			candidates := scanner.Scan(tc.text)
			if len(candidates) != 1 {
				t.Fatalf("Expected 1 candidate, got %d", len(candidates))
			}
			got := tc.text[candidates[0].Span.Start:candidates[0].Span.End]
			if got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestScannerSentenceStart(t *testing.T) {
	scanner := NewScanner(nil)
	candidates := scanner.Scan("See 410 U.S. 113. Id. at 115. The court agreed, id. at 116.")
	if len(candidates) != 3 {
		t.Fatalf("Expected 3 candidates, got %d", len(candidates))
	}
	if !candidates[1].sentenceStart {
		t.Error("Expected Id. after a period to start a sentence")
	}
	if candidates[2].sentenceStart {
		t.Error("Expected id. after a comma not to start a sentence")
	}
}

func TestScannerCaseNameBoundaries(t *testing.T) {
	scanner := NewScanner(nil)

	cases := []struct {
		name     string
		text     string
		expected string
	}{
		{"after_sentence", "Relief is barred by Title VII. Smith v. Jones, 123 F.3d 456 (3d Cir. 1997)", "Smith v. Jones, 123 F.3d 456 (3d Cir. 1997)"},
		{"after_heading", "Argument on the Merits\n\nRoe v. Wade, 410 U.S. 113 (1973)", "Roe v. Wade, 410 U.S. 113 (1973)"},
		{"after_paragraph", "The claim falls on the Commonwealth.\n\nRoe v. Wade, 410 U.S. 113 (1973)", "Roe v. Wade, 410 U.S. 113 (1973)"},
		{"abbreviated_parties", "See AT&T Corp. v. Iowa Utils. Bd., 525 U.S. 366 (1999)", "AT&T Corp. v. Iowa Utils. Bd., 525 U.S. 366 (1999)"},
		{"initialism_party", "N.L.R.B. v. Jones & Laughlin Steel Corp., 301 U.S. 1 (1937)", "N.L.R.B. v. Jones & Laughlin Steel Corp., 301 U.S. 1 (1937)"},
		{"single_line_break_joins", "Brown v. Board\nof Education, 347 U.S. 483 (1954)", "Brown v. Board\nof Education, 347 U.S. 483 (1954)"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			candidates := scanner.Scan(tc.text)
			if len(candidates) != 1 {
				t.Fatalf("Expected 1 candidate, got %d: %v", len(candidates), candidateNames(candidates))
			}
			got := tc.text[candidates[0].Span.Start:candidates[0].Span.End]
			if got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}
