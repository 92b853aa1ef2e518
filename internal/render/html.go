package render

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var blockTags = []string{"<div", "<section", "<main", "<article", "<header", "<footer", "<nav", "<table", "<form", "<style", "<script"}

// IsHTML decides whether a code block should be previewed as a page.
func IsHTML(lang, code string) bool {
	if strings.EqualFold(lang, "html") {
		return true
	}
	lower := strings.ToLower(code)
	if strings.Contains(lower, "<!doctype html") {
		return true
	}
	if !strings.Contains(lower, "<html") {
		return false
	}
	if strings.Contains(lower, "<head") || strings.Contains(lower, "<body") {
		return true
	}
	for _, tag := range blockTags {
		if strings.Contains(lower, tag) {
			return true
		}
	}
	return false
}

// previewPolicy strips scripts, handlers and embeds but keeps document
// structure so the text extractor can lay it out.
var previewPolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("html", "head", "body", "title", "main", "section", "article", "header", "footer", "nav", "button", "label")
	return p
}()

// PreviewText renders untrusted HTML as readable plain text. The markup is
// sanitized first, so nothing active survives into the preview.
func PreviewText(src string) string {
	clean := previewPolicy.Sanitize(src)
	doc, err := html.Parse(strings.NewReader(clean))
	if err != nil {
		return clean
	}
	var b strings.Builder
	extractText(doc, &b)
	return tidy(b.String())
}

func extractText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "iframe", "noscript":
			return
		case "br":
			b.WriteString("\n")
		case "h1", "h2", "h3", "h4", "h5", "h6":
			b.WriteString("\n# ")
		case "li":
			b.WriteString("\n• ")
		case "p", "div", "section", "article", "header", "footer", "tr", "table", "ul", "ol", "main", "nav":
			b.WriteString("\n")
		case "img":
			for _, a := range n.Attr {
				if a.Key == "alt" && a.Val != "" {
					b.WriteString("[image: " + a.Val + "]")
				}
			}
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(strings.Join(strings.Fields(n.Data), " "))
		if strings.HasSuffix(n.Data, " ") {
			b.WriteString(" ")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, b)
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6", "p", "td", "th":
			b.WriteString("\n")
		}
	}
}

// tidy trims lines and collapses runs of blank lines.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, l)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
