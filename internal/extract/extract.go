package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"

	"github.com/hyperifyio/presskeywords/internal/content"
)

// Document is a simplified representation of extracted page content.
type Document struct {
	Title string
	Text  string
	// Source names the selector that produced Text, or "body".
	Source string
}

// minCandidateChars is the shortest container text accepted before falling
// back to the whole body.
const minCandidateChars = 100

// FromHTML extracts readable text from HTML. Non-content elements are
// skipped, the longest of the prioritized content containers wins, and the
// whole <body> is used when no container yields enough text.
func FromHTML(input []byte) Document {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return Document{}
	}
	title := strings.TrimSpace(findTitle(node))

	best, source := "", ""
	for _, sel := range contentSelectors {
		matches := findAll(node, sel)
		if len(matches) == 0 {
			continue
		}
		var b strings.Builder
		for _, m := range matches {
			collectText(&b, m, false)
		}
		text := content.Normalize(b.String())
		if content.Len(text) > content.Len(best) {
			best, source = text, sel.name
		}
	}
	if content.Len(best) < minCandidateChars {
		best, source = "", "body"
		if body := findFirst(node, "body"); body != nil {
			var b strings.Builder
			collectText(&b, body, false)
			best = content.Normalize(b.String())
		}
	}
	return Document{Title: title, Text: best, Source: source}
}

// selector matches an element by tag, attribute value or class token.
type selector struct {
	name  string
	tag   string
	attr  string
	value string
	class string
}

// contentSelectors are tried in priority order; ties keep the earlier one.
var contentSelectors = []selector{
	{name: "article", tag: "article"},
	{name: `[role="main"]`, attr: "role", value: "main"},
	{name: ".content", class: "content"},
	{name: ".article-content", class: "article-content"},
	{name: ".post-content", class: "post-content"},
	{name: ".entry-content", class: "entry-content"},
	{name: "main", tag: "main"},
	{name: ".main-content", class: "main-content"},
}

func (s selector) match(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if s.tag != "" && !strings.EqualFold(n.Data, s.tag) {
		return false
	}
	if s.attr != "" && !strings.EqualFold(strings.TrimSpace(attr(n, s.attr)), s.value) {
		return false
	}
	if s.class != "" {
		found := false
		for _, c := range strings.Fields(attr(n, "class")) {
			if c == s.class {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// findAll returns the outermost elements matching sel, never descending into
// skipped containers or into a match.
func findAll(n *html.Node, sel selector) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.ElementNode && isSkipped(cur) {
			return
		}
		if sel.match(cur) {
			out = append(out, cur)
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func findTitle(n *html.Node) string {
	head := findFirst(n, "head")
	if head == nil {
		return ""
	}
	t := findFirst(head, "title")
	if t == nil || t.FirstChild == nil {
		return ""
	}
	return t.FirstChild.Data
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if res := findFirst(c, tag); res != nil {
			return res
		}
	}
	return nil
}

// isSkipped reports elements that never contribute text.
func isSkipped(n *html.Node) bool {
	switch strings.ToLower(n.Data) {
	case "script", "style", "noscript", "nav", "header", "footer", "aside", "iframe", "template", "svg":
		return true
	}
	return isBoilerplateContainer(n)
}

func collectText(b *strings.Builder, n *html.Node, inPre bool) {
	if n.Type == html.ElementNode {
		if isSkipped(n) {
			return
		}
		switch strings.ToLower(n.Data) {
		case "pre", "code":
			inPre = true
		case "br", "hr", "p", "div", "h1", "h2", "h3", "h4", "h5", "h6", "li", "ul", "ol", "tr", "section", "blockquote":
			b.WriteString("\n")
		}
	}

	if n.Type == html.TextNode {
		data := n.Data
		if !inPre {
			data = strings.NewReplacer("\t", " ", "\r", " ").Replace(data)
		}
		b.WriteString(data)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c, inPre)
	}

	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6", "li", "pre", "tr", "section", "blockquote":
			b.WriteString("\n")
		case "td", "th":
			b.WriteString(" ")
		}
	}
}

// isBoilerplateContainer returns true if the element looks like a cookie or
// consent banner. Page roots and content landmarks never qualify; CMSes put
// consent state classes on them.
func isBoilerplateContainer(n *html.Node) bool {
	switch strings.ToLower(n.Data) {
	case "html", "body", "main", "article":
		return false
	}
	for _, a := range n.Attr {
		key := strings.ToLower(a.Key)
		if key != "id" && key != "class" && key != "aria-label" && !strings.HasPrefix(key, "data-") {
			continue
		}
		val := strings.ToLower(a.Val)
		for _, marker := range []string{"cookie", "consent", "gdpr"} {
			if strings.Contains(val, marker) {
				return true
			}
		}
	}
	return false
}
