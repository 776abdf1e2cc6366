package fulltext

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"
)

// mockIndex is a simple in-memory mock of the Index interface for testing
type mockIndex struct {
	hits        []string
	searchError error
	lastRequest *bleve.SearchRequest
	closed      atomic.Bool
}

func (m *mockIndex) SearchInContext(ctx context.Context, req *bleve.SearchRequest) (*bleve.SearchResult, error) {
	if m.closed.Load() {
		return nil, fmt.Errorf("index closed")
	}
	if m.searchError != nil {
		return nil, m.searchError
	}
	m.lastRequest = req

	result := &bleve.SearchResult{Request: req, Total: uint64(len(m.hits))}
	for i, id := range m.hits {
		if i == req.Size {
			break
		}
		result.Hits = append(result.Hits, &search.DocumentMatch{ID: id, Score: float64(len(m.hits) - i)})
	}
	return result, nil
}

func (m *mockIndex) DocCount() (uint64, error) {
	if m.closed.Load() {
		return 0, fmt.Errorf("index closed")
	}
	return uint64(len(m.hits)), nil
}

func (m *mockIndex) Close() error {
	if m.closed.Load() {
		return fmt.Errorf("already closed")
	}
	m.closed.Store(true)
	return nil
}
