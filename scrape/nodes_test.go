package scrape

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: parse an HTML fragment into a document
func parseDoc(t *testing.T, html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

// TestAccessors_AbsentNode verifies every accessor returns "" for absent nodes
func TestAccessors_AbsentNode(t *testing.T) {
	doc := parseDoc(t, `<html><body><p class="x">hi</p></body></html>`)
	missing := doc.Find(".does-not-exist")

	tests := []struct {
		name string
		sel  *goquery.Selection
	}{
		{name: "nil selection", sel: nil},
		{name: "empty selection", sel: missing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, "", Text(tt.sel))
			assert.Equal(t, "", InnerHTML(tt.sel))
			assert.Equal(t, "", Attr(tt.sel, "href"))
			assert.Equal(t, 0, ClassCount(tt.sel))
		})
	}
}

// TestAttr_MissingAttribute verifies a present node without the attribute
func TestAttr_MissingAttribute(t *testing.T) {
	doc := parseDoc(t, `<a class="link">text</a>`)

	assert.Equal(t, "", Attr(doc.Find("a"), "href"))
	assert.Equal(t, "link", Attr(doc.Find("a"), "class"))
}

// TestText_FirstNodeOnly verifies only the first matched node is read
func TestText_FirstNodeOnly(t *testing.T) {
	doc := parseDoc(t, `<ul><li>one</li><li>two</li></ul>`)

	assert.Equal(t, "one", Text(doc.Find("li")))
	assert.Equal(t, "one", InnerHTML(doc.Find("li")))
}

// TestInnerHTML_KeepsMarkup verifies nested markup is returned verbatim
func TestInnerHTML_KeepsMarkup(t *testing.T) {
	doc := parseDoc(t, `<div id="d"><b>bold</b> tail</div>`)

	assert.Equal(t, "<b>bold</b> tail", InnerHTML(doc.Find("#d")))
	assert.Equal(t, "bold tail", Text(doc.Find("#d")))
}

// TestClassCount verifies class list counting
func TestClassCount(t *testing.T) {
	doc := parseDoc(t, `<article class="anime"></article><article class="anime  featured"></article>`)

	articles := doc.Find("article")
	assert.Equal(t, 1, ClassCount(articles.Eq(0)))
	assert.Equal(t, 2, ClassCount(articles.Eq(1)))
}

// TestNormalizeSpace verifies line breaks collapse to spaces and edges trim
func TestNormalizeSpace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "plain", want: "plain"},
		{in: "\n  Primavera 2020\n", want: "Primavera 2020"},
		{in: "line one\nline two", want: "line one line two"},
		{in: "windows\r\nbreak", want: "windows break"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSpace(tt.in), "input %q", tt.in)
	}
}
