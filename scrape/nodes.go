// Package scrape holds the null-tolerant node accessors and the document
// fetcher every extractor in this module is built on.
package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// empty reports whether the selection is absent. A nil pointer and a
// selection with no matched nodes are treated the same way.
func empty(sel *goquery.Selection) bool {
	return sel == nil || sel.Length() == 0
}

// Text returns the text content of the first node in sel, or "" when sel
// is absent.
func Text(sel *goquery.Selection) string {
	if empty(sel) {
		return ""
	}
	return sel.First().Text()
}

// InnerHTML returns the inner markup of the first node in sel, or "" when
// sel is absent or cannot be rendered.
func InnerHTML(sel *goquery.Selection) string {
	if empty(sel) {
		return ""
	}
	html, err := sel.First().Html()
	if err != nil {
		return ""
	}
	return html
}

// Attr returns the named attribute of the first node in sel. A missing
// node or a missing attribute both yield "".
func Attr(sel *goquery.Selection, name string) string {
	if empty(sel) {
		return ""
	}
	value, _ := sel.First().Attr(name)
	return value
}

// ClassCount returns how many classes the first node in sel carries.
func ClassCount(sel *goquery.Selection) int {
	return len(strings.Fields(Attr(sel, "class")))
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// NormalizeSpace replaces every line break with a single space and trims
// the result.
func NormalizeSpace(s string) string {
	return strings.TrimSpace(lineBreaks.Replace(s))
}
