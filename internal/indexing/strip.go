package indexing

import (
	"regexp"
	"strings"
)

// StripRule removes one kind of markup or source construct from page text
type StripRule struct {
	Name    string
	Pattern *regexp.Regexp
}

var (
	importRegex      = regexp.MustCompile(`import\s+[^;]*?\s+from\s+['"][^'"]+['"];?|import\s+['"][^'"]+['"];?`)
	exportRegex      = regexp.MustCompile(`export\s+default\s+|export\s+[^;\n]*;`)
	functionRegex    = regexp.MustCompile(`(?:async\s+)?function\s+\w+\s*\([^)]*\)`)
	declarationRegex = regexp.MustCompile(`(?:const|let|var)\s+\w+\s*=\s*[^;]+;`)
	tagRegex         = regexp.MustCompile(`<[^>]+>`)
	braceRegex       = regexp.MustCompile(`[{}]`)
	whitespaceRegex  = regexp.MustCompile(`\s+`)
)

// StripRules are applied in order on every pass of Strip. Module statements go
// first so that their string literals are not split up by the tag rule.
var StripRules = []StripRule{
	{Name: "imports", Pattern: importRegex},
	{Name: "exports", Pattern: exportRegex},
	{Name: "functions", Pattern: functionRegex},
	{Name: "declarations", Pattern: declarationRegex},
	{Name: "tags", Pattern: tagRegex},
	{Name: "braces", Pattern: braceRegex},
}

// Apply replaces every match of the rule with a single space
func (r StripRule) Apply(text string) string {
	return r.Pattern.ReplaceAllString(text, " ")
}

// StripImports removes `import ... from '...'` statements
func StripImports(text string) string { return StripRules[0].Apply(text) }

// StripExports removes export statements and `export default` prefixes
func StripExports(text string) string { return StripRules[1].Apply(text) }

// StripFunctions removes function declaration headers
func StripFunctions(text string) string { return StripRules[2].Apply(text) }

// StripDeclarations removes `const x = ...;` style variable declarations
func StripDeclarations(text string) string { return StripRules[3].Apply(text) }

// StripTags removes HTML/JSX tags
func StripTags(text string) string { return StripRules[4].Apply(text) }

// StripBraces removes curly braces left over from JSX expressions
func StripBraces(text string) string { return StripRules[5].Apply(text) }

// CollapseWhitespace turns every whitespace run into one space and trims the ends
func CollapseWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}

// Strip converts page source into the plain text used for matching.
// Passes repeat until nothing changes, so Strip(Strip(x)) == Strip(x).
func Strip(text string) string {
	for {
		next := text
		for _, rule := range StripRules {
			next = rule.Apply(next)
		}
		next = CollapseWhitespace(next)
		if next == text {
			return next
		}
		text = next
	}
}
