package search

import (
	"slices"
	"strings"
)

// MaxSuggestions bounds the list returned by Suggest
const MaxSuggestions = 8

// Suggestions is the curated phrase dictionary completions are drawn from
var Suggestions = []string{
	"how to deploy contracts",
	"wallet connection",
	"constructor arguments",
	"mainnet deployment",
	"callReadMethod",
	"callWriteMethod",
	"useDynamicContracts",
	"yarn deploy:testnet",
	"contract not found",
	"wallet connection failed",
	"deployment failed",
	"getting started",
	"installation",
	"troubleshooting",
	"examples",
	"api reference",
}

// PopularSearchPhrases are offered before the user has typed anything
var PopularSearchPhrases = []string{
	"getting started",
	"deployment",
	"wallet connection",
	"contract interaction",
	"troubleshooting",
	"examples",
	"api reference",
	"installation",
}

// Suggest returns dictionary phrases containing partial, ignoring case, in
// dictionary order. Only the empty string yields no suggestions; whitespace
// is matched like any other text, so " " completes to multi-word phrases.
func Suggest(partial string) []string {
	out := make([]string, 0, MaxSuggestions)
	if partial == "" {
		return out
	}
	q := strings.ToLower(partial)
	for _, phrase := range Suggestions {
		if strings.Contains(strings.ToLower(phrase), q) {
			out = append(out, phrase)
			if len(out) == MaxSuggestions {
				break
			}
		}
	}
	return out
}

func PopularSearches() []string {
	return slices.Clone(PopularSearchPhrases)
}
