package search

import (
	"errors"
	"fmt"
	"slices"

	"github.com/stellarplus/docsearch/internal/indexing"
)

// SortMode selects how matching documents are ordered
type SortMode string

const (
	SortRelevance  SortMode = "relevance"
	SortPopularity SortMode = "popularity"
	SortDate       SortMode = "date"
)

var AllSortModes = []SortMode{SortRelevance, SortPopularity, SortDate}

var ErrUnknownSortMode = errors.New("unknown sort mode")

// ParseSortMode accepts "relevance", "popularity" or "date". An empty string means relevance.
func ParseSortMode(s string) (SortMode, error) {
	if s == "" {
		return SortRelevance, nil
	}
	mode := SortMode(s)
	if !slices.Contains(AllSortModes, mode) {
		return "", fmt.Errorf("%w: %q", ErrUnknownSortMode, s)
	}
	return mode, nil
}

// Filter dimension names, as used in analytics snapshots
const (
	DimensionSection    = "section"
	DimensionCategory   = "category"
	DimensionDifficulty = "difficulty"
	DimensionTags       = "tags"
)

// Filters narrows search results. An empty list places no constraint on its
// dimension; Tags keeps documents sharing at least one tag with the list.
type Filters struct {
	Section    []string `json:"section,omitempty"`
	Category   []string `json:"category,omitempty"`
	Difficulty []string `json:"difficulty,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

func (f Filters) IsEmpty() bool {
	return len(f.Section) == 0 && len(f.Category) == 0 && len(f.Difficulty) == 0 && len(f.Tags) == 0
}

// Allows reports whether doc passes every active filter
func (f Filters) Allows(doc indexing.Document) bool {
	if len(f.Section) > 0 && !slices.Contains(f.Section, string(doc.Section)) {
		return false
	}
	if len(f.Category) > 0 && !slices.Contains(f.Category, string(doc.Category)) {
		return false
	}
	if len(f.Difficulty) > 0 && !slices.Contains(f.Difficulty, string(doc.Difficulty)) {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(doc.Tags, func(tag string) bool {
		return slices.Contains(f.Tags, tag)
	}) {
		return false
	}
	return true
}

// Snapshot returns the active dimensions keyed by name, or nil when no
// filter is set.
func (f Filters) Snapshot() map[string][]string {
	if f.IsEmpty() {
		return nil
	}
	snapshot := make(map[string][]string)
	add := func(dim string, values []string) {
		if len(values) > 0 {
			snapshot[dim] = slices.Clone(values)
		}
	}
	add(DimensionSection, f.Section)
	add(DimensionCategory, f.Category)
	add(DimensionDifficulty, f.Difficulty)
	add(DimensionTags, f.Tags)
	return snapshot
}

// FilterTags are the tags offered as quick filters
var FilterTags = []string{"deployment", "hooks", "wallets", "contracts", "mainnet", "testnet", "troubleshooting"}

// Facets lists the values a client can filter on
type Facets struct {
	Sections     []string `json:"sections"`
	Categories   []string `json:"categories"`
	Difficulties []string `json:"difficulties"`
	Tags         []string `json:"tags"`
	SortModes    []string `json:"sort_modes"`
}

func FilterOptions() Facets {
	opts := Facets{
		Sections:     make([]string, 0, len(indexing.AllSections)),
		Categories:   make([]string, 0, len(indexing.AllCategories)),
		Difficulties: make([]string, 0, len(indexing.AllDifficulties)),
		Tags:         slices.Clone(FilterTags),
		SortModes:    make([]string, 0, len(AllSortModes)),
	}
	for _, s := range indexing.AllSections {
		opts.Sections = append(opts.Sections, string(s))
	}
	for _, c := range indexing.AllCategories {
		opts.Categories = append(opts.Categories, string(c))
	}
	for _, d := range indexing.AllDifficulties {
		opts.Difficulties = append(opts.Difficulties, string(d))
	}
	for _, m := range AllSortModes {
		opts.SortModes = append(opts.SortModes, string(m))
	}
	return opts
}
