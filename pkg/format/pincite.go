package format

import (
	"sort"
	"strconv"
	"strings"

	"github.com/coolbeans/lexcite/pkg/citation"
)

// PinciteRange renders an inclusive page range. Bluebook drops repeated
// leading digits but keeps at least two ("118–19", "1190–95", "100–09");
// ALWD and Chicago print both ends in full.
func PinciteRange(start, end int, style Style) string {
	if end <= start {
		return strconv.Itoa(start)
	}
	s, e := strconv.Itoa(start), strconv.Itoa(end)
	if style == StyleBluebook && len(s) == len(e) && len(s) > 2 {
		i := 0
		for i < len(s)-2 && s[i] == e[i] {
			i++
		}
		e = e[i:]
	}
	return s + style.rangeDash() + e
}

// FormatPincite renders a pincite in style. Numeric ranges are rendered with
// PinciteRange; other parts ("5 n.3") are kept as written.
func FormatPincite(pincite string, style Style) string {
	normalized := citation.NormalizePincite(pincite)
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, ", ")
	for i, part := range parts {
		start, end, ok := strings.Cut(part, "-")
		if !ok {
			continue
		}
		startNum, err1 := strconv.Atoi(start)
		endNum, err2 := strconv.Atoi(end)
		if err1 == nil && err2 == nil && endNum > startNum {
			parts[i] = PinciteRange(startNum, endNum, style)
		}
	}
	return strings.Join(parts, ", ")
}

// MergePageRanges renders sorted, deduplicated pages with consecutive runs
// collapsed, e.g. 113, 118, 119 becomes "113, 118–19".
func MergePageRanges(ranges []citation.PageRange, style Style) string {
	if len(ranges) == 0 {
		return ""
	}
	sorted := append([]citation.PageRange(nil), ranges...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	merged := []citation.PageRange{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.End+1 {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}

	parts := make([]string, len(merged))
	for i, r := range merged {
		parts[i] = PinciteRange(r.Start, r.End, style)
	}
	return strings.Join(parts, ", ")
}
