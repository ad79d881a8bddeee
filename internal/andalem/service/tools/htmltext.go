package tools

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func parseHTML(body []byte) (*html.Node, error) {
	return html.Parse(bytes.NewReader(body))
}

// visibleText returns the non-empty text lines under n, skipping scripts and styles.
func visibleText(n *html.Node) string {
	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template:
				return
			}
		case html.TextNode:
			if s := strings.Join(strings.Fields(n.Data), " "); s != "" {
				lines = append(lines, s)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(lines, "\n")
}

// findAll returns the nodes under n matched by match, in document order.
func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// selector compiles a simple selector: "tag", "#id", ".class" or "tag.class".
// An empty selector matches nothing.
func selector(sel string) func(*html.Node) bool {
	sel = strings.TrimSpace(sel)
	if sel == "" {
		return func(*html.Node) bool { return false }
	}
	if strings.HasPrefix(sel, "#") {
		id := sel[1:]
		return func(n *html.Node) bool { return attr(n, "id") == id }
	}
	tag, class, _ := strings.Cut(sel, ".")
	tag = strings.ToLower(tag)
	return func(n *html.Node) bool {
		if tag != "" && n.Data != tag {
			return false
		}
		return class == "" || hasClass(n, class)
	}
}

// textBlocks splits a page into paragraph-like blocks of visible text.
func textBlocks(doc *html.Node) []string {
	nodes := findAll(doc, func(n *html.Node) bool {
		switch n.DataAtom {
		case atom.P, atom.Li, atom.H1, atom.H2, atom.H3, atom.H4, atom.Pre, atom.Blockquote, atom.Td:
			return true
		}
		return false
	})
	blocks := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if s := strings.Join(strings.Fields(visibleText(n)), " "); s != "" {
			blocks = append(blocks, s)
		}
	}
	return blocks
}
