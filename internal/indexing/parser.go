package indexing

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Parser extracts the searchable fields from the raw source of one page
type Parser interface {
	Parse(src []byte) (Extracted, error)
}

// SupportedExtensions lists the page formats the extractor understands
var SupportedExtensions = map[string]bool{
	".tsx":  true,
	".jsx":  true,
	".md":   true,
	".mdx":  true,
	".html": true,
	".htm":  true,
}

// ParserFor returns the parser for a page based on its extension
func ParserFor(path string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".tsx", ".jsx":
		return &JSXParser{}, nil
	case ".md", ".mdx":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported page extension: %q", ext)
	}
}

// newExtracted fills in the vocabulary-derived fields once content is known
func newExtracted(title, content string, headings []Heading, blocks []CodeBlock) Extracted {
	if title == "" {
		title = UntitledTitle
	}
	if headings == nil {
		headings = []Heading{}
	}
	if blocks == nil {
		blocks = []CodeBlock{}
	}
	return Extracted{
		Title:      title,
		Content:    content,
		Headings:   headings,
		CodeBlocks: blocks,
		Tags:       DeriveTags(content),
		Keywords:   DeriveKeywords(content),
	}
}

func newHeading(level int, text string) Heading {
	text = strings.TrimSpace(text)
	return Heading{Level: level, Text: text, ID: Slug(text)}
}
