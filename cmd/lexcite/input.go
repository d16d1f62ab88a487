package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/net/html"
)

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("html", false, "Treat input as HTML and cite its visible text")
}

// readInput reads the named file, or stdin when args is empty. Files ending
// in .html or .htm are treated as HTML without the flag.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	asHTML, _ := cmd.Flags().GetBool("html")

	var r io.Reader = cmd.InOrStdin()
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
		asHTML = asHTML || isHTMLPath(args[0])
	}
	return readText(r, asHTML)
}

func readText(r io.Reader, asHTML bool) (string, error) {
	if asHTML {
		return htmlText(r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

func isHTMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return false
}

// skippedElements never contribute visible text.
var skippedElements = map[string]bool{
	"head": true, "script": true, "style": true, "noscript": true,
	"template": true, "iframe": true, "object": true, "svg": true,
}

// blockElements end a paragraph, which becomes a segment for short forms.
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "blockquote": true,
	"li": true, "ul": true, "ol": true, "table": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "footer": true, "aside": true, "main": true, "pre": true,
}

// htmlText returns the visible text of an HTML document. Block elements are
// separated by blank lines, <br> by a newline, and an element with a
// "page-break-before" style or class starts a new page.
func htmlText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(collapseSpace(n.Data, endsWithSpace(&b)))
			return
		case html.ElementNode:
			if skippedElements[n.Data] {
				return
			}
			if n.Data == "br" {
				b.WriteString("\n")
				return
			}
			if pageBreak(n) {
				b.WriteString("\f")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockElements[n.Data] {
			endBlock(&b)
		}
	}
	walk(doc)

	return strings.TrimSpace(b.String()), nil
}

func pageBreak(n *html.Node) bool {
	for _, attr := range n.Attr {
		switch attr.Key {
		case "style":
			if strings.Contains(strings.ReplaceAll(attr.Val, " ", ""), "page-break-before:always") {
				return true
			}
		case "class":
			for _, class := range strings.Fields(attr.Val) {
				if class == "page-break" || class == "pagebreak" {
					return true
				}
			}
		}
	}
	return false
}

func endBlock(b *strings.Builder) {
	s := b.String()
	if s == "" || strings.HasSuffix(s, "\n\n") || strings.HasSuffix(s, "\f") {
		return
	}
	if strings.HasSuffix(s, "\n") {
		b.WriteString("\n")
		return
	}
	b.WriteString("\n\n")
}

func endsWithSpace(b *strings.Builder) bool {
	s := b.String()
	if s == "" {
		return true
	}
	switch s[len(s)-1] {
	case ' ', '\n', '\f':
		return true
	}
	return false
}

// collapseSpace folds runs of whitespace to one space, dropping a leading
// space when the output already ends in whitespace.
func collapseSpace(s string, trimLeading bool) string {
	var b strings.Builder
	space := trimLeading
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\u00a0' {
			if !space {
				b.WriteByte(' ')
				space = true
			}
			continue
		}
		b.WriteRune(r)
		space = false
	}
	return b.String()
}
