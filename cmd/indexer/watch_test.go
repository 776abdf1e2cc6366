package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/stellarplus/docsearch/internal/indexing"
	"github.com/stellarplus/docsearch/internal/logger"
	"github.com/stellarplus/docsearch/internal/metrics"
)

func TestOwnsPath(t *testing.T) {
	docs := t.TempDir()
	ix := &indexer{
		output:     filepath.Join(docs, "search-index.json"),
		bleveIndex: filepath.Join(docs, "fulltext.bleve"),
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"artifact", filepath.Join(docs, "search-index.json"), true},
		{"artifact temp", filepath.Join(docs, "search-index.json.tmp"), true},
		{"full-text index", filepath.Join(docs, "fulltext.bleve"), true},
		{"full-text segment", filepath.Join(docs, "fulltext.bleve", "store", "root.bolt"), true},
		{"full-text temp", filepath.Join(docs, "fulltext.bleve.tmp", "index_meta.json"), true},
		{"full-text version", filepath.Join(docs, "fulltext.bleve.version"), true},
		{"page", filepath.Join(docs, "hooks", "page.tsx"), false},
		{"sibling with shared prefix", filepath.Join(docs, "fulltext.bleve-notes.md"), false},
		{"unclean path", filepath.Join(docs, "hooks", "..", "search-index.json"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ix.ownsPath(tt.path); got != tt.want {
				t.Errorf("ownsPath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}

	if (&indexer{}).ownsPath(filepath.Join(docs, "page.tsx")) {
		t.Error("Expected an indexer without outputs to own nothing")
	}
}

func TestWatchIgnoresOwnOutput(t *testing.T) {
	docs := t.TempDir()
	writePage(t, docs, "page.tsx", `<h1>Introduction</h1><p>Getting started.</p>`)

	ix := &indexer{
		extractor:  indexing.NewExtractor(indexing.Options{Logger: logger.Discard()}),
		output:     filepath.Join(docs, "search-index.json"),
		bleveIndex: filepath.Join(docs, "fulltext.bleve"),
		metrics:    metrics.New(),
		logger:     logger.Discard(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ix.watch(ctx, docs) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("watch() error = %v", err)
		}
	}()

	built := func() float64 {
		return testutil.ToFloat64(ix.metrics.ExtractedDocumentsTotal.WithLabelValues("ok"))
	}

	time.Sleep(200 * time.Millisecond)
	writePage(t, docs, "hooks/page.tsx", `<h1>Hooks</h1><p>callReadMethod.</p>`)

	// the version file is the last thing a build writes
	versionFile := ix.bleveIndex + ".version"
	deadline := time.Now().Add(10 * time.Second)
	for {
		if _, err := os.Stat(versionFile); err == nil && built() > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Expected a rebuild after a page changed")
		}
		time.Sleep(50 * time.Millisecond)
	}
	if _, err := os.Stat(ix.output); err != nil {
		t.Fatalf("Expected artifact inside the docs tree: %v", err)
	}

	first := built()
	time.Sleep(4 * debounce)
	if got := built(); got != first {
		t.Errorf("Writing outputs triggered another rebuild: extracted %v documents, want %v", got, first)
	}
}
