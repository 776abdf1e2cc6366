// Package search implements the query engine and suggestion dictionary over a corpus.
package search

import (
	"sort"
	"strings"

	"github.com/stellarplus/docsearch/internal/corpus"
	"github.com/stellarplus/docsearch/internal/indexing"
)

// MaxResults bounds every result list returned by Search
const MaxResults = 20

// Engine answers substring queries over a fixed corpus. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	docs  []indexing.Document
	lower []lowered
}

// lowered caches the lowercase forms of the matchable fields
type lowered struct {
	title    string
	content  string
	tags     []string
	keywords []string
}

func NewEngine(c *corpus.Corpus) *Engine {
	docs := c.Documents()
	e := &Engine{
		docs:  docs,
		lower: make([]lowered, len(docs)),
	}
	for i, doc := range docs {
		e.lower[i] = lowered{
			title:    strings.ToLower(doc.Title),
			content:  strings.ToLower(doc.Content),
			tags:     lowerAll(doc.Tags),
			keywords: lowerAll(doc.Keywords),
		}
	}
	return e
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

func (l lowered) matches(q string) bool {
	if strings.Contains(l.title, q) || strings.Contains(l.content, q) {
		return true
	}
	for _, tag := range l.tags {
		if strings.Contains(tag, q) {
			return true
		}
	}
	for _, kw := range l.keywords {
		if strings.Contains(kw, q) {
			return true
		}
	}
	return false
}

// Search returns at most MaxResults documents containing query in their
// title, content, tags or keywords, ignoring case.
//
// A blank query returns no results. The query is otherwise matched as given,
// surrounding spaces included. Relevance puts title matches first; every sort
// is stable, so ties keep corpus order.
func (e *Engine) Search(query string, filters Filters, sortBy SortMode) []indexing.Document {
	if strings.TrimSpace(query) == "" {
		return []indexing.Document{}
	}
	q := strings.ToLower(query)

	matched := make([]int, 0)
	for i := range e.docs {
		if e.lower[i].matches(q) && filters.Allows(e.docs[i]) {
			matched = append(matched, i)
		}
	}

	switch sortBy {
	case SortPopularity:
		sort.SliceStable(matched, func(a, b int) bool {
			return e.docs[matched[a]].Popularity > e.docs[matched[b]].Popularity
		})
	case SortDate:
		sort.SliceStable(matched, func(a, b int) bool {
			return e.docs[matched[a]].LastModified.After(e.docs[matched[b]].LastModified)
		})
	default:
		sort.SliceStable(matched, func(a, b int) bool {
			return strings.Contains(e.lower[matched[a]].title, q) && !strings.Contains(e.lower[matched[b]].title, q)
		})
	}

	if len(matched) > MaxResults {
		matched = matched[:MaxResults]
	}
	results := make([]indexing.Document, 0, len(matched))
	for _, i := range matched {
		results = append(results, e.docs[i])
	}
	return results
}

// Len returns the corpus size
func (e *Engine) Len() int {
	return len(e.docs)
}
