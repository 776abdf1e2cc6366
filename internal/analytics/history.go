package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/stellarplus/docsearch/internal/kvstore"
)

// MaxRecentSearches bounds the history list
const MaxRecentSearches = 10

// History is the most-recent-first list of queries the user acted on,
// de-duplicated by exact text.
type History struct {
	settings
	store kvstore.Store

	mu      sync.Mutex
	queries []string
}

// NewHistory loads the persisted list from store; missing or corrupt data
// starts it empty.
func NewHistory(ctx context.Context, store kvstore.Store, opts ...Option) *History {
	if store == nil {
		store = kvstore.NewMemory()
	}
	h := &History{
		settings: newSettings(opts),
		store:    store,
		queries:  []string{},
	}
	h.load(ctx)
	return h
}

func (h *History) load(ctx context.Context) {
	data, err := h.store.Get(ctx, HistoryKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return
	}
	if err != nil {
		h.logger.Error("failed to load recent searches", "key", HistoryKey, "error", err)
		h.metrics.PersistenceFailed("load")
		return
	}
	var queries []string
	if err := json.Unmarshal(data, &queries); err != nil {
		h.logger.Error("failed to parse recent searches, starting empty", "key", HistoryKey, "error", err)
		h.metrics.PersistenceFailed("load")
		return
	}
	if len(queries) > MaxRecentSearches {
		queries = queries[:MaxRecentSearches]
	}
	if queries != nil {
		h.queries = queries
	}
}

// Add moves query to the front of the list and persists it. Blank queries
// are ignored.
func (h *History) Add(ctx context.Context, query string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if strings.TrimSpace(query) == "" {
		return slices.Clone(h.queries)
	}

	next := make([]string, 0, MaxRecentSearches)
	next = append(next, query)
	for _, q := range h.queries {
		if q != query && len(next) < MaxRecentSearches {
			next = append(next, q)
		}
	}
	h.queries = next

	data, err := json.Marshal(h.queries)
	if err == nil {
		err = h.store.Set(ctx, HistoryKey, data)
	}
	if err != nil {
		h.logger.Error("failed to save recent searches", "key", HistoryKey, "error", err)
		h.metrics.PersistenceFailed("save")
	}
	return slices.Clone(h.queries)
}

func (h *History) List() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.queries)
}

func (h *History) Clear(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queries = []string{}
	if err := h.store.Delete(ctx, HistoryKey); err != nil {
		h.logger.Error("failed to clear recent searches", "key", HistoryKey, "error", err)
		h.metrics.PersistenceFailed("delete")
	}
}
