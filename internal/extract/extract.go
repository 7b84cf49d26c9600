package extract

import (
	"bytes"
	"errors"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// ErrNoText is returned when a page yields no readable text.
var ErrNoText = errors.New("no readable text")

// Document is the readable content of one page.
type Document struct {
	Title string
	Text  string
}

// FromHTML extracts readable text from HTML, preferring <main> or <article>
// and falling back to <body>. Markup, scripts, styles and navigation chrome
// are dropped; paragraphs survive as single blank-line separated blocks.
func FromHTML(input []byte) (Document, error) {
	root, err := html.Parse(bytes.NewReader(input))
	if err != nil {
		return Document{}, err
	}
	doc := Document{Title: Clean(titleOf(root))}
	content := findFirst(root, "main")
	if content == nil {
		content = findFirst(root, "article")
	}
	if content == nil {
		content = findFirst(root, "body")
	}
	if content == nil {
		return doc, ErrNoText
	}
	var b strings.Builder
	walk(&b, content, false)
	doc.Text = Clean(b.String())
	if doc.Text == "" {
		return doc, ErrNoText
	}
	return doc, nil
}

func titleOf(n *html.Node) string {
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
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func walk(b *strings.Builder, n *html.Node, inPre bool) {
	if n.Type == html.ElementNode {
		if isConsentBanner(n) {
			return
		}
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript", "template", "svg", "nav", "footer", "aside", "iframe", "form", "button":
			return
		case "pre":
			inPre = true
			breakLines(b, 1)
		case "br", "hr":
			b.WriteString("\n")
		case "p", "div", "section", "h1", "h2", "h3", "h4", "h5", "h6", "li", "ul", "ol", "table", "tr", "blockquote":
			breakLines(b, 1)
		case "td", "th":
			b.WriteString(" ")
		}
	}

	if n.Type == html.TextNode {
		data := n.Data
		if inPre {
			// keep line breaks of code blocks
			b.WriteString(data)
		} else {
			b.WriteString(strings.Map(func(r rune) rune {
				if r == '\n' || r == '\r' || r == '\t' {
					return ' '
				}
				return r
			}, data))
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(b, c, inPre)
	}

	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "p", "h1", "h2", "h3", "h4", "h5", "h6", "pre", "blockquote", "table":
			breakLines(b, 2)
		case "li", "tr", "div", "section", "ul", "ol":
			breakLines(b, 1)
		}
	}
}

// breakLines makes sure b ends with at least n newlines, ignoring trailing
// spaces left by inter-tag whitespace.
func breakLines(b *strings.Builder, n int) {
	s := b.String()
	have := 0
	for i := len(s) - 1; i >= 0 && have < n; i-- {
		if s[i] == '\n' {
			have++
		} else if s[i] != ' ' {
			break
		}
	}
	for ; have < n; have++ {
		b.WriteByte('\n')
	}
}

// isConsentBanner reports whether the element looks like a cookie/consent
// banner by its id, class, role or aria-label.
func isConsentBanner(n *html.Node) bool {
	for _, attr := range n.Attr {
		switch strings.ToLower(attr.Key) {
		case "id", "class", "role", "aria-label":
		default:
			continue
		}
		val := strings.ToLower(attr.Val)
		for _, marker := range []string{"cookie", "consent", "gdpr"} {
			if strings.Contains(val, marker) {
				return true
			}
		}
	}
	return false
}

// Clean NFC-normalizes s, collapses runs of spaces inside each line and keeps
// at most one blank line between paragraphs.
func Clean(s string) string {
	s = norm.NFC.String(s)
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if len(out) == 0 || out[len(out)-1] == "" {
				continue
			}
		}
		out = append(out, line)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
