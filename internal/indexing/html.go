package indexing

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// HTMLParser handles static HTML pages.
type HTMLParser struct{}

func (p *HTMLParser) Parse(src []byte) (Extracted, error) {
	doc, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return Extracted{}, fmt.Errorf("parse html: %w", err)
	}

	var (
		h1       string
		headings []Heading
		blocks   []CodeBlock
		buf      strings.Builder
	)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "head", "template":
				return
			case "pre":
				if lang, body, ok := codeBlock(n); ok {
					blocks = append(blocks, CodeBlock{Language: lang, Content: strings.TrimSpace(body)})
				}
			}
			if level := headingLevel(n.Data); level > 0 {
				h := newHeading(level, textContent(n))
				if level == 1 && h1 == "" {
					h1 = h.Text
				}
				headings = append(headings, h)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	title := h1
	if title == "" {
		title = findTitle(doc)
	}

	return newExtracted(title, Strip(buf.String()), headings, blocks), nil
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

// codeBlock reports the language and text of a <pre><code class="language-x"> block
func codeBlock(pre *html.Node) (string, string, bool) {
	for c := pre.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "code" {
			continue
		}
		for _, attr := range c.Attr {
			if attr.Key != "class" {
				continue
			}
			for _, class := range strings.Fields(attr.Val) {
				if lang, ok := strings.CutPrefix(class, "language-"); ok && lang != "" {
					return lang, textContent(c), true
				}
			}
		}
	}
	return "", "", false
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}
