package analytics

import (
	"sort"
)

// topN bounds popularSearches and topFilters
const topN = 10

type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// FilterCount counts one "dimension:value" pair
type FilterCount struct {
	Filter string `json:"filter"`
	Count  int    `json:"count"`
}

// Summary is the computed analytics view. Every rate and average is 0 for an
// empty log.
type Summary struct {
	TotalSearches            int            `json:"totalSearches"`
	PopularSearches          []QueryCount   `json:"popularSearches"`
	NoResultsQueries         []string       `json:"noResultsQueries"`
	AverageResultsPerQuery   float64        `json:"averageResultsPerQuery"`
	SearchAbandonmentRate    float64        `json:"searchAbandonmentRate"`
	ClickThroughRate         float64        `json:"clickThroughRate"`
	AverageTimeToFirstResult float64        `json:"averageTimeToFirstResult"`
	TopFilters               []FilterCount  `json:"topFilters"`
	TopSortMethods           map[string]int `json:"topSortMethods"`
}

// Summarize derives the view from events. Count ties keep first-seen order.
func Summarize(events []SearchEvent) Summary {
	s := Summary{
		TotalSearches:    len(events),
		PopularSearches:  []QueryCount{},
		NoResultsQueries: []string{},
		TopFilters:       []FilterCount{},
		TopSortMethods:   map[string]int{},
	}
	if len(events) == 0 {
		return s
	}

	queries := newCounter()
	filters := newCounter()
	noResults := make(map[string]bool)
	var totalResults, clicked, timed int
	var totalMs int64

	for _, e := range events {
		queries.add(e.Query)
		totalResults += e.ResultCount

		if e.ResultCount == 0 && !noResults[e.Query] {
			noResults[e.Query] = true
			s.NoResultsQueries = append(s.NoResultsQueries, e.Query)
		}
		if e.ClickedResultID != "" {
			clicked++
		}
		if e.TimeToFirstResultMs != nil {
			timed++
			totalMs += *e.TimeToFirstResultMs
		}
		for _, dim := range sortedKeys(e.Filters) {
			for _, v := range e.Filters[dim] {
				filters.add(dim + ":" + v)
			}
		}
		if e.SortBy != "" {
			s.TopSortMethods[e.SortBy]++
		}
	}

	total := float64(len(events))
	s.AverageResultsPerQuery = float64(totalResults) / total
	s.ClickThroughRate = float64(clicked) / total
	s.SearchAbandonmentRate = float64(len(events)-clicked) / total
	if timed > 0 {
		s.AverageTimeToFirstResult = float64(totalMs) / float64(timed)
	}

	for _, key := range queries.top(topN) {
		s.PopularSearches = append(s.PopularSearches, QueryCount{Query: key, Count: queries.counts[key]})
	}
	for _, key := range filters.top(topN) {
		s.TopFilters = append(s.TopFilters, FilterCount{Filter: key, Count: filters.counts[key]})
	}
	return s
}

// counter tallies keys and remembers first-seen order
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) top(n int) []string {
	keys := append([]string(nil), c.order...)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
