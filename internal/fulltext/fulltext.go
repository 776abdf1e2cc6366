// Package fulltext builds a scored bleve index over the corpus. It backs the
// fulltext_search tool, next to the substring engine in package search.
package fulltext

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/stellarplus/docsearch/internal/indexing"
)

const (
	// SchemaVersion changes whenever the indexed fields or mapping change.
	// Indexes written with another version are rejected by Open.
	SchemaVersion = 1

	DefaultLimit = 10
	MaxLimit     = 20

	batchSize = 100
)

var ErrVersionMismatch = errors.New("full-text index schema version mismatch")

// Hit is one scored match
type Hit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// indexedDoc is the shape stored in bleve
type indexedDoc struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Headings []string `json:"headings"`
	Tags     []string `json:"tags"`
	Keywords []string `json:"keywords"`
	Section  string   `json:"section"`
}

func toIndexed(doc indexing.Document) indexedDoc {
	headings := make([]string, 0, len(doc.Headings))
	for _, h := range doc.Headings {
		headings = append(headings, h.Text)
	}
	return indexedDoc{
		Title:    doc.Title,
		Content:  doc.Content,
		Headings: headings,
		Tags:     doc.Tags,
		Keywords: doc.Keywords,
		Section:  string(doc.Section),
	}
}

func newMapping() mapping.IndexMapping {
	text := bleve.NewTextFieldMapping()
	keyword := bleve.NewKeywordFieldMapping()

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("title", text)
	doc.AddFieldMappingsAt("content", text)
	doc.AddFieldMappingsAt("headings", text)
	doc.AddFieldMappingsAt("tags", text)
	doc.AddFieldMappingsAt("keywords", text)
	doc.AddFieldMappingsAt("section", keyword)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

// Build indexes docs in memory
func Build(docs []indexing.Document) (Index, error) {
	idx, err := bleve.NewMemOnly(newMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}
	if err := indexDocuments(idx, docs, nil); err != nil {
		idx.Close()
		return nil, err
	}
	return Wrap(idx), nil
}

// indexDocuments submits docs in batches
func indexDocuments(idx bleve.Index, docs []indexing.Document, logger *slog.Logger) error {
	batch := idx.NewBatch()
	for i, doc := range docs {
		if err := batch.Index(doc.ID, toIndexed(doc)); err != nil {
			return fmt.Errorf("failed to add document %s to batch: %w", doc.ID, err)
		}

		if batch.Size() >= batchSize {
			if err := idx.Batch(batch); err != nil {
				return fmt.Errorf("failed to index batch: %w", err)
			}
			batch = idx.NewBatch()
			if logger != nil {
				logger.Debug("indexed documents", "done", i+1, "total", len(docs))
			}
		}
	}

	if batch.Size() > 0 {
		if err := idx.Batch(batch); err != nil {
			return fmt.Errorf("failed to index final batch: %w", err)
		}
	}
	return nil
}

// BuildOnDisk writes a fresh index at path. The index is built in a temp
// directory and renamed into place, so a crash never leaves a half-written
// index at path. A version file is written next to it.
func BuildOnDisk(path string, docs []indexing.Document, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	startTime := time.Now()
	tempPath := path + ".tmp"

	// leftover from a previous crash
	os.RemoveAll(tempPath)

	idx, err := bleve.New(tempPath, newMapping())
	if err != nil {
		return fmt.Errorf("failed to create temp index: %w", err)
	}

	if err := indexDocuments(idx, docs, logger); err != nil {
		idx.Close()
		os.RemoveAll(tempPath)
		return err
	}

	if err := idx.Close(); err != nil {
		os.RemoveAll(tempPath)
		return fmt.Errorf("failed to close temp index: %w", err)
	}

	if err := os.RemoveAll(path); err != nil {
		os.RemoveAll(tempPath)
		return fmt.Errorf("failed to remove old index: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.RemoveAll(tempPath)
		return fmt.Errorf("failed to rename temp index: %w", err)
	}

	if err := os.WriteFile(versionPath(path), []byte(strconv.Itoa(SchemaVersion)), 0644); err != nil {
		return fmt.Errorf("failed to write index version: %w", err)
	}

	logger.Info("full-text index written", "path", path, "documents", len(docs),
		"elapsed", time.Since(startTime).Round(time.Millisecond))
	return nil
}

func versionPath(path string) string {
	return strings.TrimRight(path, `/\`) + ".version"
}

// indexVersion reads the schema version written by BuildOnDisk, 0 if absent
func indexVersion(path string) int {
	data, err := os.ReadFile(versionPath(path))
	if err != nil {
		return 0
	}
	version, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return version
}

// Open opens an index written by BuildOnDisk
func Open(path string) (Index, error) {
	if v := indexVersion(path); v != SchemaVersion {
		return nil, fmt.Errorf("%w: have v%d, want v%d", ErrVersionMismatch, v, SchemaVersion)
	}
	idx, err := bleve.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	return Wrap(idx), nil
}

// Search runs a match query and returns hits by descending score. limit <= 0
// means DefaultLimit; larger values are capped at MaxLimit.
func Search(ctx context.Context, idx Index, query string, limit int) ([]Hit, error) {
	if strings.TrimSpace(query) == "" {
		return []Hit{}, nil
	}
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	req.Size = limit

	result, err := idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]Hit, 0, len(result.Hits))
	for _, hit := range result.Hits {
		hits = append(hits, Hit{ID: hit.ID, Score: hit.Score})
	}
	return hits, nil
}
