package citation

import "testing"

func TestMatchBufferNormalization(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"collapse_spaces", "a   b\t\tc", "a b c"},
		{"newlines", "Roe\nv.\r\nWade", "Roe v. Wade"},
		{"nbsp", "410\u00a0U.S.\u00a0113", "410 U.S. 113"},
		{"curly_quotes", "F. App’x “quoted”", `F. App'x "quoted"`},
		{"fullwidth_digits", "４１０ U.S.", "410 U.S."},
		{"zero_width", "410\u200bU.S.", "410 U.S."},
		{"fullwidth_section", "４２ U.S.C. §\u3000１９８３", "42 U.S.C. § 1983"},
		{"blank_line", "Merits\n\nRoe", "Merits\nRoe"},
		{"blank_line_with_indent", "Merits \r\n \r\n\tRoe", "Merits\nRoe"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := newMatchBuffer(tc.input)
			if buf.text != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, buf.text)
			}
			if len(buf.starts) != len(buf.text) || len(buf.ends) != len(buf.text) {
				t.Errorf("Expected offset maps to cover every byte, got %d/%d for %d", len(buf.starts), len(buf.ends), len(buf.text))
			}
		})
	}
}

func TestMatchBufferOriginalSpan(t *testing.T) {
	src := "See  Roe v. Wade."
	buf := newMatchBuffer(src)
	// Normalized: "See Roe v. Wade."
	start := 4
	end := len("See Roe v. Wade")
	span := buf.original(start, end)
	if got := src[span.Start:span.End]; got != "Roe v. Wade" {
		t.Errorf("Expected original %q, got %q", "Roe v. Wade", got)
	}
}

func TestMatchBufferSentenceStart(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		pos      int
		expected bool
	}{
		{"start_of_text", "Id.", 0, true},
		{"after_period", "Done. Id.", 6, true},
		{"after_quote", `He said "no." Id.`, 14, true},
		{"after_comma", "Done, id.", 6, false},
		{"mid_sentence", "as noted id.", 9, false},
		{"after_paragraph", "Heading\n\nid.", 8, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := newMatchBuffer(tc.text)
			if got := buf.sentenceStart(tc.pos); got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestMatchBufferParagraphSpan(t *testing.T) {
	src := "Merits\n\n\nRoe"
	buf := newMatchBuffer(src)
	span := buf.original(len("Merits"), len("Merits")+1)
	if got := src[span.Start:span.End]; got != "\n\n\n" {
		t.Errorf("Expected the break to cover %q, got %q", "\n\n\n", got)
	}
}
