package app

import (
	"context"
	"errors"
	"strings"

	"github.com/stellarplus/docsearch/internal/indexing"
	"github.com/stellarplus/docsearch/internal/search"
)

// Search runs a query against the current snapshot and records it. Blank
// queries are answered (with nothing) but not recorded.
func (a *App) Search(ctx context.Context, query string, filters search.Filters, sortBy search.SortMode) ([]indexing.Document, error) {
	snap, release, err := a.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	docs := snap.Engine.Search(query, filters, sortBy)

	if strings.TrimSpace(query) == "" {
		return docs, nil
	}

	a.Metrics.ObserveSearch(string(sortBy), len(docs))
	a.Tracker.TrackSearch(ctx, query, len(docs), filters.Snapshot(), string(sortBy))
	return docs, nil
}

// ErrNegativeDuration is returned for a time to first result below zero.
var ErrNegativeDuration = errors.New("time to first result must not be negative")

// TimeToFirstResult records how long the client took to show the first
// result of query, measured from when the user started typing. Only the
// client can observe that interval, so the value is reported, never derived
// from engine latency. It reports whether an open search event took it.
func (a *App) TimeToFirstResult(ctx context.Context, query string, ms int64) (bool, error) {
	if ms < 0 {
		return false, ErrNegativeDuration
	}
	return a.Tracker.TrackTimeToFirstResult(ctx, query, ms), nil
}

// Click records that resultID was opened from query's results and moves
// query to the top of the recent searches. It reports whether an open search
// event took the click, and returns the updated recent list.
func (a *App) Click(ctx context.Context, query, resultID string) (bool, []string) {
	tracked := a.Tracker.TrackClick(ctx, query, resultID)
	return tracked, a.History.Add(ctx, query)
}

// Document looks a document up in the current snapshot
func (a *App) Document(id string) (indexing.Document, bool, error) {
	snap, release, err := a.Acquire()
	if err != nil {
		return indexing.Document{}, false, err
	}
	defer release()

	doc, ok := snap.Corpus.ByID(id)
	return doc, ok, nil
}
