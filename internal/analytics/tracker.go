// Package analytics records search usage and derives summary statistics. It
// also keeps the recent-search history. State is persisted through a
// kvstore.Store; storage failures are logged and never returned.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/stellarplus/docsearch/internal/kvstore"
)

const (
	AnalyticsKey = "search-analytics"
	HistoryKey   = "recent-searches"
)

// SearchEvent is one recorded search. ClickedResultID and TimeToFirstResultMs
// are set later, at most once each.
type SearchEvent struct {
	ID                  string              `json:"id"`
	Query               string              `json:"query"`
	ResultCount         int                 `json:"resultCount"`
	Timestamp           time.Time           `json:"timestamp"`
	Filters             map[string][]string `json:"filters,omitempty"`
	SortBy              string              `json:"sortBy,omitempty"`
	ClickedResultID     string              `json:"clickedResultId,omitempty"`
	TimeToFirstResultMs *int64              `json:"timeToFirstResultMs,omitempty"`
}

// Tracker holds the append-only event log. It is safe for concurrent use.
type Tracker struct {
	settings
	store kvstore.Store

	mu     sync.Mutex
	events []SearchEvent
}

// NewTracker loads the persisted event log from store. A missing or
// unreadable log starts the tracker empty. A nil store keeps events in memory.
func NewTracker(ctx context.Context, store kvstore.Store, opts ...Option) *Tracker {
	if store == nil {
		store = kvstore.NewMemory()
	}
	t := &Tracker{
		settings: newSettings(opts),
		store:    store,
		events:   []SearchEvent{},
	}
	t.load(ctx)
	return t
}

func (t *Tracker) load(ctx context.Context) {
	data, err := t.store.Get(ctx, AnalyticsKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return
	}
	if err != nil {
		t.logger.Error("failed to load search analytics", "key", AnalyticsKey, "error", err)
		t.metrics.PersistenceFailed("load")
		return
	}

	var events []SearchEvent
	if err := json.Unmarshal(data, &events); err != nil {
		t.logger.Error("failed to parse search analytics, starting empty", "key", AnalyticsKey, "error", err)
		t.metrics.PersistenceFailed("load")
		return
	}
	if events != nil {
		t.events = events
	}
	t.logger.Debug("search analytics loaded", "events", len(t.events))
}

// save mirrors the log to the store. Caller holds t.mu.
func (t *Tracker) save(ctx context.Context) {
	data, err := json.Marshal(t.events)
	if err == nil {
		err = t.store.Set(ctx, AnalyticsKey, data)
	}
	if err != nil {
		t.logger.Error("failed to save search analytics", "key", AnalyticsKey, "error", err)
		t.metrics.PersistenceFailed("save")
	}
}

// TrackSearch appends an event stamped with the current time and persists
// the log. filters may be nil and sortBy empty.
func (t *Tracker) TrackSearch(ctx context.Context, query string, resultCount int, filters map[string][]string, sortBy string) SearchEvent {
	event := SearchEvent{
		ID:          t.newID(),
		Query:       query,
		ResultCount: resultCount,
		Timestamp:   t.now(),
		SortBy:      sortBy,
	}
	if len(filters) > 0 {
		event.Filters = make(map[string][]string, len(filters))
		for dim, values := range filters {
			event.Filters[dim] = slices.Clone(values)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
	t.save(ctx)
	return event
}

// TrackClick attaches resultID to the most recent event for query that has
// no click yet. It reports whether an event was updated.
func (t *Tracker) TrackClick(ctx context.Context, query, resultID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.lastOpen(query, func(e SearchEvent) bool { return e.ClickedResultID == "" })
	if i < 0 {
		return false
	}
	t.events[i].ClickedResultID = resultID
	t.save(ctx)
	return true
}

// TrackTimeToFirstResult sets the latency of the most recent event for query
// that has none yet. It reports whether an event was updated.
func (t *Tracker) TrackTimeToFirstResult(ctx context.Context, query string, ms int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.lastOpen(query, func(e SearchEvent) bool { return e.TimeToFirstResultMs == nil })
	if i < 0 {
		return false
	}
	t.events[i].TimeToFirstResultMs = &ms
	t.save(ctx)
	return true
}

func (t *Tracker) lastOpen(query string, open func(SearchEvent) bool) int {
	for i := len(t.events) - 1; i >= 0; i-- {
		if t.events[i].Query == query && open(t.events[i]) {
			return i
		}
	}
	return -1
}

// Events returns a copy of the log in insertion order
func (t *Tracker) Events() []SearchEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]SearchEvent, len(t.events))
	for i, e := range t.events {
		out[i] = e.clone()
	}
	return out
}

func (e SearchEvent) clone() SearchEvent {
	if e.Filters != nil {
		filters := make(map[string][]string, len(e.Filters))
		for dim, values := range e.Filters {
			filters[dim] = slices.Clone(values)
		}
		e.Filters = filters
	}
	if e.TimeToFirstResultMs != nil {
		ms := *e.TimeToFirstResultMs
		e.TimeToFirstResultMs = &ms
	}
	return e
}

// Analytics computes the summary view of the current log
func (t *Tracker) Analytics() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Summarize(t.events)
}

// Clear empties the log and removes the persisted copy
func (t *Tracker) Clear(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = []SearchEvent{}
	if err := t.store.Delete(ctx, AnalyticsKey); err != nil {
		t.logger.Error("failed to clear search analytics", "key", AnalyticsKey, "error", err)
		t.metrics.PersistenceFailed("delete")
	}
}

// Export writes the summary view to w as indented JSON
func (t *Tracker) Export(w io.Writer) error {
	data, err := json.MarshalIndent(t.Analytics(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode analytics: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write analytics: %w", err)
	}
	return nil
}
