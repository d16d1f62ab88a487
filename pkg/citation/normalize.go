package citation

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// matchBuffer is the normalized text the scanner matches against. Each byte
// of text remembers the original byte range it came from, so spans found in
// the buffer map back onto the untouched source.
type matchBuffer struct {
	text   string
	starts []int
	ends   []int
}

// newMatchBuffer normalizes src for matching: whitespace runs collapse to a
// single space, curly quotes become straight, and fullwidth forms fold to
// their ASCII equivalents. A run holding a blank line collapses to a newline
// instead, so patterns that join words with a space stop at paragraph breaks.
func newMatchBuffer(src string) *matchBuffer {
	text := make([]byte, 0, len(src))
	buf := &matchBuffer{
		starts: make([]int, 0, len(src)),
		ends:   make([]int, 0, len(src)),
	}

	emit := func(s string, start, end int) {
		text = append(text, s...)
		for i := 0; i < len(s); i++ {
			buf.starts = append(buf.starts, start)
			buf.ends = append(buf.ends, end)
		}
	}

	inSpace := false
	newlines := 0
	for offset := 0; offset < len(src); {
		r, size := utf8.DecodeRuneInString(src[offset:])
		end := offset + size

		if unicode.IsSpace(r) || r == '\u00a0' || r == '\u200b' {
			if r == '\n' {
				newlines++
			}
			if inSpace {
				// Extend the range of the space already emitted.
				buf.ends[len(buf.ends)-1] = end
			} else {
				emit(" ", offset, end)
				inSpace = true
			}
			if newlines >= 2 {
				text[len(text)-1] = paragraphBreak
			}
			offset = end
			continue
		}
		inSpace = false
		newlines = 0

		emit(foldRune(r), offset, end)
		offset = end
	}

	buf.text = string(text)
	return buf
}

// paragraphBreak stands in the buffer for whitespace that spans a blank line.
const paragraphBreak = '\n'

func foldRune(r rune) string {
	switch r {
	case '‘', '’', '′', '`':
		return "'"
	case '“', '”', '″':
		return `"`
	case '‑', '‐':
		return "-"
	}
	if folded := width.LookupRune(r).Folded(); folded != 0 {
		return string(folded)
	}
	return string(r)
}

// original maps a byte range of the buffer onto the source text.
func (m *matchBuffer) original(start, end int) Span {
	if start >= end || start >= len(m.starts) {
		return Span{}
	}
	return Span{Start: m.starts[start], End: m.ends[end-1]}
}

// sentenceStart reports whether the buffer position begins a sentence: it is
// at the start of the text or a paragraph, or follows terminal punctuation.
func (m *matchBuffer) sentenceStart(pos int) bool {
	i := pos - 1
	for i >= 0 && (m.text[i] == ' ' || m.text[i] == paragraphBreak) {
		if m.text[i] == paragraphBreak {
			return true
		}
		i--
	}
	if i < 0 {
		return true
	}
	switch m.text[i] {
	case '.', '?', '!':
		return true
	case '"', ')':
		return i > 0 && (m.text[i-1] == '.' || m.text[i-1] == '?' || m.text[i-1] == '!')
	}
	return false
}
