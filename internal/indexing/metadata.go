package indexing

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// TagVocabulary is the fixed list of topical tags. A tag is attached when it
// occurs anywhere in the page content, ignoring case.
var TagVocabulary = []string{
	"deployment",
	"contract",
	"wallet",
	"hook",
	"mainnet",
	"testnet",
	"troubleshooting",
	"example",
	"tutorial",
	"api",
	"cli",
	"yarn",
	"typescript",
	"react",
	"nextjs",
	"stellar",
	"soroban",
}

// KeywordVocabulary is the fixed list of technical terms. Matching ignores
// case but the term is emitted with the casing below.
var KeywordVocabulary = []string{
	"callReadMethod",
	"callWriteMethod",
	"useDynamicContracts",
	"useWallet",
	"deploy:testnet",
	"deploy:mainnet",
	"yarn setup",
	"yarn dev",
	"constructor",
	"bindings",
	"metadata",
	"RPC",
	"endpoint",
	"transaction",
	"address",
	"keypair",
	"freighter",
	"albedo",
	"xbull",
	"rabet",
}

var slugSeparatorRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Slug creates a heading anchor from text
// Example: "What Makes It Dynamic?" -> "what-makes-it-dynamic"
func Slug(text string) string {
	slug := slugSeparatorRegex.ReplaceAllString(strings.ToLower(text), "-")
	return strings.Trim(slug, "-")
}

// DeriveTags returns the vocabulary tags present in content, in vocabulary order
func DeriveTags(content string) []string {
	return matchVocabulary(content, TagVocabulary)
}

// DeriveKeywords returns the technical terms present in content, in vocabulary order
func DeriveKeywords(content string) []string {
	return matchVocabulary(content, KeywordVocabulary)
}

func matchVocabulary(content string, vocabulary []string) []string {
	lower := strings.ToLower(content)
	seen := make(map[string]bool, len(vocabulary))
	matches := make([]string, 0)
	for _, term := range vocabulary {
		if seen[term] {
			continue
		}
		if strings.Contains(lower, strings.ToLower(term)) {
			matches = append(matches, term)
			seen[term] = true
		}
	}
	return matches
}

// Excerpt returns the first ExcerptLength characters of content, with an
// ellipsis when the content was cut.
func Excerpt(content string) string {
	if utf8.RuneCountInString(content) <= ExcerptLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:ExcerptLength]) + "..."
}
