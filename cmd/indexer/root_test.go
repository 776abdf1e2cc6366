package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stellarplus/docsearch/internal/config"
	"github.com/stellarplus/docsearch/internal/corpus"
	"github.com/stellarplus/docsearch/internal/fulltext"
	"github.com/stellarplus/docsearch/internal/indexing"
)

func writePage(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", rel, err)
	}
}

func TestIndexerCommand(t *testing.T) {
	docs := t.TempDir()
	writePage(t, docs, "page.tsx", `<h1>Introduction</h1><p>Getting started with Stellar.</p>`)
	writePage(t, docs, "hooks/page.tsx", `<h1>Unified Hook System</h1><p>callReadMethod and callWriteMethod.</p>`)
	writePage(t, docs, "examples/reading.md", "# Reading Contract Data\n\nQuery contracts without fees.\n")

	out := t.TempDir()
	artifact := filepath.Join(out, "search-index.json")
	bleveIndex := filepath.Join(out, "fulltext.bleve")

	cmd := newRootCmd()
	cmd.SetArgs([]string{
		docs, artifact,
		"--config", filepath.Join(out, "missing.yml"),
		"--bleve-index", bleveIndex,
		"--quiet",
	})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	c, err := corpus.LoadFile(artifact)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if c.Len() != 3 {
		t.Errorf("Expected 3 documents, got %d", c.Len())
	}

	idx, err := fulltext.Open(bleveIndex)
	if err != nil {
		t.Fatalf("fulltext.Open() error = %v", err)
	}
	defer idx.Close()
	if count, _ := idx.DocCount(); count != 3 {
		t.Errorf("full-text DocCount() = %d, want 3", count)
	}
}

func TestIndexerCommandArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"only-one"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Error("Expected error for missing output argument")
	}
}

func TestApplyFlags(t *testing.T) {
	opts := &options{
		baseHref:   "/docs",
		include:    []string{"**/*.md"},
		bleveIndex: "idx",
	}
	cfg := config.DefaultConfig()
	applyFlags(cfg, opts)

	if cfg.Indexer.BaseHref != "/docs" {
		t.Errorf("BaseHref = %q, want /docs", cfg.Indexer.BaseHref)
	}
	if len(cfg.Indexer.Include) != 1 || cfg.Indexer.Include[0] != "**/*.md" {
		t.Errorf("Include = %v, want [**/*.md]", cfg.Indexer.Include)
	}
	if cfg.Indexer.Exclude != nil {
		t.Errorf("Exclude should stay unset, got %v", cfg.Indexer.Exclude)
	}
	if cfg.Corpus.BleveIndex != "idx" {
		t.Errorf("BleveIndex = %q, want idx", cfg.Corpus.BleveIndex)
	}
}

func TestPrintSummary(t *testing.T) {
	result := &indexing.Result{
		Documents: []indexing.Document{
			{ID: "doc-0", Section: indexing.SectionGettingStarted},
			{ID: "doc-1", Section: indexing.SectionExamples},
		},
		Failures: []indexing.Failure{{Path: "broken.tsx", Err: os.ErrNotExist}},
		Files:    3,
	}

	var buf bytes.Buffer
	printSummary(&buf, result, "out.json")
	got := buf.String()

	for _, want := range []string{"Indexed 2 of 3 pages", "Getting Started", "Examples", "1 pages failed", "broken.tsx"} {
		if !strings.Contains(got, want) {
			t.Errorf("Summary missing %q:\n%s", want, got)
		}
	}
}
