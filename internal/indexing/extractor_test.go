package indexing_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

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

func newDocsTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writePage(t, root, "page.tsx", `<h1>Introduction</h1><p>Getting started with Stellar.</p>`)
	writePage(t, root, "layout.tsx", `<h1>Layout</h1>`)
	writePage(t, root, "hooks/page.tsx", `<h1>Unified Hook System</h1><p>callReadMethod and callWriteMethod.</p>`)
	writePage(t, root, "examples/reading.md", "# Reading Contract Data\n\nQuery contracts without fees.\n")
	writePage(t, root, "notes.txt", "not a page")
	if err := os.Symlink(filepath.Join(root, "missing.tsx"), filepath.Join(root, "broken.tsx")); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}
	return root
}

func TestDiscover(t *testing.T) {
	root := newDocsTree(t)
	ex := indexing.NewExtractor(indexing.Options{})

	files, err := ex.Discover(root)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	expected := []string{"broken.tsx", "examples/reading.md", "hooks/page.tsx", "page.tsx"}
	if !reflect.DeepEqual(files, expected) {
		t.Errorf("Discover() = %v, want %v", files, expected)
	}
}

func TestDiscoverIncludeExclude(t *testing.T) {
	root := newDocsTree(t)
	ex := indexing.NewExtractor(indexing.Options{
		Include: []string{"**/*.tsx"},
		Exclude: []string{"**/layout.tsx", "broken.tsx"},
	})

	files, err := ex.Discover(root)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	expected := []string{"hooks/page.tsx", "page.tsx"}
	if !reflect.DeepEqual(files, expected) {
		t.Errorf("Discover() = %v, want %v", files, expected)
	}
}

func TestExtractorRunSkipsFailures(t *testing.T) {
	root := newDocsTree(t)
	ex := indexing.NewExtractor(indexing.Options{
		Popularity: map[string]int{"/docs/hooks": 92, "/docs": 150},
	})

	result, err := ex.Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Files != 4 {
		t.Errorf("Expected 4 discovered files, got %d", result.Files)
	}
	if len(result.Failures) != 1 || result.Failures[0].Path != "broken.tsx" {
		t.Fatalf("Expected one failure for broken.tsx, got %v", result.Failures)
	}
	if len(result.Documents) != 3 {
		t.Fatalf("Expected 3 documents, got %d", len(result.Documents))
	}

	byHref := make(map[string]indexing.Document)
	for _, doc := range result.Documents {
		byHref[doc.Href] = doc
	}

	hooks, ok := byHref["/docs/hooks"]
	if !ok {
		t.Fatalf("Missing /docs/hooks in %v", byHref)
	}
	if hooks.ID != "doc-2" {
		t.Errorf("Expected id doc-2 (discovery order), got %s", hooks.ID)
	}
	if hooks.Section != indexing.SectionCoreConcepts || hooks.Category != indexing.CategoryGuide {
		t.Errorf("Unexpected classification: %s/%s", hooks.Section, hooks.Category)
	}
	if hooks.Popularity != 92 {
		t.Errorf("Expected popularity 92, got %d", hooks.Popularity)
	}
	if !reflect.DeepEqual(hooks.Keywords, []string{"callReadMethod", "callWriteMethod"}) {
		t.Errorf("Unexpected keywords: %v", hooks.Keywords)
	}

	intro := byHref["/docs"]
	if intro.Title != "Introduction" {
		t.Errorf("Expected title Introduction, got %q", intro.Title)
	}
	if intro.Difficulty != indexing.DifficultyBeginner {
		t.Errorf("Expected beginner difficulty, got %s", intro.Difficulty)
	}
	if intro.Popularity != indexing.MaxPopularity {
		t.Errorf("Expected popularity clamped to %d, got %d", indexing.MaxPopularity, intro.Popularity)
	}
	if intro.LastModified.IsZero() {
		t.Error("Expected lastModified from file modification time")
	}

	reading := byHref["/docs/examples/reading"]
	if reading.Section != indexing.SectionExamples || reading.Popularity != 0 {
		t.Errorf("Unexpected reading doc: section=%s popularity=%d", reading.Section, reading.Popularity)
	}
}

func TestExtractorRunCancelled(t *testing.T) {
	root := newDocsTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := indexing.NewExtractor(indexing.Options{}).Run(ctx, root); err == nil {
		t.Error("Expected error for cancelled context")
	}
}

func TestExtractorMissingRoot(t *testing.T) {
	_, err := indexing.NewExtractor(indexing.Options{}).Run(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Error("Expected error for missing docs directory")
	}
}

func TestWriteArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "search-index.json")
	docs := []indexing.Document{
		indexing.BuildDocument("doc-0", "hooks/page.tsx", "/docs/hooks", indexing.Extracted{Title: "Hooks", Content: "hook"}, time.Unix(0, 0), 10),
	}

	if err := indexing.WriteArtifact(path, indexing.NewArtifact(docs, time.Now())); err != nil {
		t.Fatalf("WriteArtifact failed: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temp artifact should be renamed away")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read artifact: %v", err)
	}
	var artifact indexing.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		t.Fatalf("Artifact is not valid JSON: %v", err)
	}
	if artifact.SchemaVersion != indexing.ArtifactSchemaVersion {
		t.Errorf("Expected schema version %d, got %d", indexing.ArtifactSchemaVersion, artifact.SchemaVersion)
	}
	if len(artifact.Documents) != 1 || artifact.Documents[0].Href != "/docs/hooks" {
		t.Errorf("Unexpected documents: %+v", artifact.Documents)
	}
}
