package indexing

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	jsxH1Regex            = regexp.MustCompile(`(?i)<h1[^>]*>([^<]+)</h1>`)
	jsxDocTitleRegex      = regexp.MustCompile(`(?i)<title[^>]*>([^<]+)</title>`)
	jsxDefaultExportRegex = regexp.MustCompile(`export\s+default\s+function\s+(\w+)`)
	jsxHeadingRegex       = regexp.MustCompile(`(?i)<h([1-6])[^>]*>([^<]+)</h[1-6]>`)
	jsxCodeBlockRegex     = regexp.MustCompile(`(?is)<pre[^>]*>\s*<code[^>]*class(?:Name)?="[^"]*language-(\w+)[^"]*"[^>]*>([^<]+)</code>\s*</pre>`)
)

// JSXParser reads React page components (.tsx/.jsx) with plain text patterns.
// It does not evaluate JSX; text hidden behind expressions is not recovered.
type JSXParser struct{}

func (p *JSXParser) Parse(src []byte) (Extracted, error) {
	raw := string(src)

	var headings []Heading
	for _, m := range jsxHeadingRegex.FindAllStringSubmatch(raw, -1) {
		level, _ := strconv.Atoi(m[1])
		headings = append(headings, newHeading(level, m[2]))
	}

	var blocks []CodeBlock
	for _, m := range jsxCodeBlockRegex.FindAllStringSubmatch(raw, -1) {
		blocks = append(blocks, CodeBlock{
			Language: m[1],
			Content:  strings.TrimSpace(m[2]),
		})
	}

	return newExtracted(jsxTitle(raw), Strip(raw), headings, blocks), nil
}

// jsxTitle returns the first <h1>, then <title>, then the name of the default
// exported component.
func jsxTitle(raw string) string {
	for _, re := range []*regexp.Regexp{jsxH1Regex, jsxDocTitleRegex, jsxDefaultExportRegex} {
		if m := re.FindStringSubmatch(raw); m != nil {
			if title := strings.TrimSpace(m[1]); title != "" {
				return title
			}
		}
	}
	return ""
}
