package toa

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const lineWidth = 72

// Text renders the table as plain text with dotted leaders to the page
// references. Merged pincites follow on an indented line.
func (t *Table) Text() string {
	var sb strings.Builder

	sb.WriteString("TABLE OF AUTHORITIES\n")
	sb.WriteString(strings.Repeat("=", lineWidth) + "\n")

	for _, section := range t.Sections {
		sb.WriteString(fmt.Sprintf("\n%s\n\n", section.Heading))
		for _, entry := range section.Entries {
			sb.WriteString(leaderLine(entry.Authority, entry.PageReferences))
			if entry.MergedPincites != "" {
				sb.WriteString(fmt.Sprintf("    at %s\n", entry.MergedPincites))
			}
		}
	}

	return sb.String()
}

func leaderLine(authority, pages string) string {
	if pages == "" {
		return authority + "\n"
	}
	used := utf8.RuneCountInString(authority) + utf8.RuneCountInString(pages) + 2
	dots := lineWidth - used
	if dots < 3 {
		dots = 3
	}
	return authority + " " + strings.Repeat(".", dots) + " " + pages + "\n"
}
