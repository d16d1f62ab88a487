package citation

import "testing"

func TestNormalizePincite(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"115", "115"},
		{"118–19", "118-119"},
		{"118-19", "118-119"},
		{"118 - 119", "118-119"},
		{"1190-95", "1190-1195"},
		{"113,118", "113, 118"},
		{"5 n.3", "5 n.3"},
		{"99-101", "99-101"},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			if got := NormalizePincite(tc.input); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
			if again := NormalizePincite(NormalizePincite(tc.input)); again != tc.expected {
				t.Errorf("Expected idempotent %q, got %q", tc.expected, again)
			}
		})
	}
}

func TestParsePageRanges(t *testing.T) {
	ranges, rest := ParsePageRanges("113, 118–19, 5 n.3")
	if len(ranges) != 2 {
		t.Fatalf("Expected 2 ranges, got %v", ranges)
	}
	if ranges[0] != (PageRange{113, 113}) {
		t.Errorf("Expected 113, got %v", ranges[0])
	}
	if ranges[1] != (PageRange{118, 119}) {
		t.Errorf("Expected 118-119, got %v", ranges[1])
	}
	if len(rest) != 1 || rest[0] != "5 n.3" {
		t.Errorf("Expected remainder [5 n.3], got %v", rest)
	}
}
