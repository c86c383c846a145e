// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	xhtml "golang.org/x/net/html"

	"github.com/pdiddy/litharvest/pkg/types"
)

// blockElements get a word break around their text so that adjacent
// paragraphs do not run together. Namespaced JATS names (jats:p) are matched
// on the local part.
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"sec": true, "section": true, "title": true, "label": true, "abstract": true,
	"abstracttext": true, "table": true, "tr": true, "td": true, "th": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// markupTag matches something that looks like an opening, closing or
// self-closing tag, so a lone "<" in running text ("p < 0.05") is left alone.
var markupTag = regexp.MustCompile(`</?[A-Za-z][A-Za-z0-9:_-]*(\s[^<>]*)?/?>`)

// cleanMarkup turns a markup-bearing field (JATS or HTML abstracts, titles
// with inline tags, entity-escaped markup) into plain text. It decodes
// entities, strips tags, and collapses whitespace. Markup that was escaped
// once more than usual is unwrapped by a second pass.
func cleanMarkup(raw string) types.Optional[string] {
	s := raw
	for pass := 0; pass < 2 && needsParse(s, pass); pass++ {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
		if err != nil {
			break
		}
		var b strings.Builder
		for _, n := range doc.Nodes {
			writeText(&b, n)
		}
		s = b.String()
	}
	s = html.UnescapeString(s)
	return types.Text(strings.Join(strings.Fields(s), " "))
}

// needsParse decides whether another HTML pass is due. The first pass runs
// whenever there is anything to decode; the second only when the first one
// surfaced real tags from escaped markup.
func needsParse(s string, pass int) bool {
	if pass == 0 {
		return strings.ContainsAny(s, "<&")
	}
	return markupTag.MatchString(s)
}

func writeText(b *strings.Builder, n *xhtml.Node) {
	switch n.Type {
	case xhtml.TextNode:
		b.WriteString(n.Data)
		return
	case xhtml.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
	}

	block := n.Type == xhtml.ElementNode && blockElements[localName(n.Data)]
	if block {
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if block {
		b.WriteByte(' ')
	}
}

func localName(tag string) string {
	if i := strings.LastIndexByte(tag, ':'); i >= 0 {
		tag = tag[i+1:]
	}
	return strings.ToLower(tag)
}

// leadingYear parses the first four characters of s as a year. Dates such as
// "2026-10-21", "2026 Oct" and "2026" all yield 2026.
func leadingYear(s string) types.Optional[int] {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return types.None[int]()
	}
	y, err := strconv.Atoi(s[:4])
	if err != nil || y <= 0 {
		return types.None[int]()
	}
	return types.Some(y)
}
