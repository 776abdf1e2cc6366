package indexing

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown and MDX pages using goldmark.
// MDX import/export lines parse as paragraphs and are removed by Strip.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(src []byte) (Extracted, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var (
		title    string
		headings []Heading
		blocks   []CodeBlock
		buf      bytes.Buffer
	)

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			h := newHeading(node.Level, string(node.Text(src)))
			if node.Level == 1 && title == "" {
				title = h.Text
			}
			headings = append(headings, h)
			buf.WriteString(h.Text)
			buf.WriteByte(' ')
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			body := blockLines(node, src)
			if lang := string(node.Language(src)); lang != "" {
				blocks = append(blocks, CodeBlock{
					Language: lang,
					Content:  strings.TrimSpace(body),
				})
			}
			buf.WriteString(body)
			buf.WriteByte(' ')
			return ast.WalkSkipChildren, nil

		case *ast.CodeBlock, *ast.HTMLBlock:
			buf.WriteString(blockLines(node, src))
			buf.WriteByte(' ')
			return ast.WalkSkipChildren, nil

		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}

		case *ast.String:
			buf.Write(node.Value)

		case *ast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				buf.Write(seg.Value(src))
			}

		case *ast.Paragraph, *ast.ListItem:
			buf.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return Extracted{}, err
	}

	return newExtracted(title, Strip(buf.String()), headings, blocks), nil
}

// blockLines concatenates the raw source lines of a block node
func blockLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return buf.String()
}
