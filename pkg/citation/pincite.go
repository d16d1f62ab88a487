package citation

import (
	"strconv"
	"strings"
)

// PageRange is an inclusive range of numbered pages.
type PageRange struct {
	Start int
	End   int
}

// NormalizePincite puts a pincite in canonical form: dashes become hyphens,
// abbreviated ranges are expanded ("118–19" becomes "118-119"), and list
// separators are normalized to ", ".
func NormalizePincite(pincite string) string {
	pincite = strings.TrimSpace(pincite)
	if pincite == "" {
		return ""
	}
	pincite = strings.NewReplacer("–", "-", "—", "-", "‑", "-").Replace(pincite)

	parts := splitPincites(pincite)
	for i, part := range parts {
		parts[i] = expandRange(part)
	}
	return strings.Join(parts, ", ")
}

func splitPincites(pincite string) []string {
	var parts []string
	for _, part := range strings.FieldsFunc(pincite, func(r rune) bool { return r == ',' || r == '&' }) {
		part = strings.TrimSpace(part)
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func expandRange(part string) string {
	start, end, ok := strings.Cut(part, "-")
	if !ok {
		return part
	}
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	startNum, err1 := strconv.Atoi(start)
	endNum, err2 := strconv.Atoi(end)
	if err1 != nil || err2 != nil {
		return start + "-" + end
	}
	if endNum < startNum && len(end) < len(start) {
		end = start[:len(start)-len(end)] + end
	}
	return start + "-" + end
}

// ParsePageRanges splits a normalized pincite into numeric page ranges and
// the non-numeric remainder ("5 n.3", "xii"), both in written order.
func ParsePageRanges(pincite string) ([]PageRange, []string) {
	var ranges []PageRange
	var rest []string
	for _, part := range splitPincites(NormalizePincite(pincite)) {
		if n, err := strconv.Atoi(part); err == nil {
			ranges = append(ranges, PageRange{Start: n, End: n})
			continue
		}
		if start, end, ok := strings.Cut(part, "-"); ok {
			startNum, err1 := strconv.Atoi(start)
			endNum, err2 := strconv.Atoi(end)
			if err1 == nil && err2 == nil && endNum >= startNum {
				ranges = append(ranges, PageRange{Start: startNum, End: endNum})
				continue
			}
		}
		rest = append(rest, part)
	}
	return ranges, rest
}
