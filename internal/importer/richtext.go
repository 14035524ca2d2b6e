package importer

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// innerText strips markup from an HTML fragment and returns the
// concatenated text content. Used to derive the plain title and the slug
// source from provider markup.
func innerText(fragment string) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), nil)
	if err != nil {
		// Unparseable markup degrades to the raw string rather than
		// losing the content.
		return strings.TrimSpace(fragment)
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}

	for _, n := range nodes {
		walk(n)
	}

	return strings.TrimSpace(b.String())
}

// normalizeFragment reserializes an HTML fragment so stored rich text is
// well-formed regardless of provider sloppiness (unclosed tags, stray
// brackets).
func normalizeFragment(fragment string) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), bodyContext())
	if err != nil {
		return fragment
	}

	var b strings.Builder
	for _, n := range nodes {
		if err := html.Render(&b, n); err != nil {
			return fragment
		}
	}

	return b.String()
}

func bodyContext() *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
}
