package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stellarplus/docsearch/internal/analytics"
	"github.com/stellarplus/docsearch/internal/config"
)

// execute runs the CLI against an isolated data dir and returns stdout
func execute(t *testing.T, dataDir string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(dataDir, "missing.yml"),
		"--data-dir", dataDir,
	}, args...))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("docsearch %v: %v", args, err)
	}
	return out.String()
}

func TestSearchCommand(t *testing.T) {
	dir := t.TempDir()

	out := execute(t, dir, "search", "wallet")
	if !strings.Contains(out, "Wallet") {
		t.Errorf("Expected wallet results, got:\n%s", out)
	}

	out = execute(t, dir, "search", "kubernetes")
	if !strings.Contains(out, "No results found.") {
		t.Errorf("Expected no results, got:\n%s", out)
	}
}

func TestSearchCommandJSON(t *testing.T) {
	dir := t.TempDir()

	out := execute(t, dir, "search", "hooks", "--section", "Core Concepts", "--sort", "popularity", "--json")
	var docs []struct {
		ID      string `json:"id"`
		Section string `json:"section"`
	}
	if err := json.Unmarshal([]byte(out), &docs); err != nil {
		t.Fatalf("Invalid JSON output: %v\n%s", err, out)
	}
	if len(docs) == 0 {
		t.Fatal("Expected results")
	}
	for _, d := range docs {
		if d.Section != "Core Concepts" {
			t.Errorf("Result %s has section %q", d.ID, d.Section)
		}
	}
}

func TestSearchCommandInvalidSort(t *testing.T) {
	dir := t.TempDir()
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--data-dir", dir, "search", "hooks", "--sort", "alphabetical"})
	if err := cmd.Execute(); err == nil {
		t.Error("Expected error for unknown sort mode")
	}
}

func TestAnalyticsPersistAcrossRuns(t *testing.T) {
	dir := t.TempDir()

	execute(t, dir, "search", "deployment")
	execute(t, dir, "search", "deployment")
	execute(t, dir, "search", "kubernetes")
	out := execute(t, dir, "click", "deployment", "deployment")
	if !strings.Contains(out, "Click recorded.") {
		t.Errorf("Expected click to be recorded, got:\n%s", out)
	}

	var summary analytics.Summary
	if err := json.Unmarshal([]byte(execute(t, dir, "analytics", "show", "--json")), &summary); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if summary.TotalSearches != 3 {
		t.Errorf("TotalSearches = %d, want 3", summary.TotalSearches)
	}
	if len(summary.PopularSearches) == 0 || summary.PopularSearches[0].Query != "deployment" || summary.PopularSearches[0].Count != 2 {
		t.Errorf("PopularSearches = %+v, want deployment first with 2", summary.PopularSearches)
	}
	if len(summary.NoResultsQueries) != 1 || summary.NoResultsQueries[0] != "kubernetes" {
		t.Errorf("NoResultsQueries = %v, want [kubernetes]", summary.NoResultsQueries)
	}

	out = execute(t, dir, "analytics", "show")
	if !strings.Contains(out, "Popular searches") || !strings.Contains(out, "deployment (2)") {
		t.Errorf("Unexpected summary output:\n%s", out)
	}

	execute(t, dir, "analytics", "clear")
	if err := json.Unmarshal([]byte(execute(t, dir, "analytics", "show", "--json")), &summary); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if summary.TotalSearches != 0 {
		t.Errorf("TotalSearches after clear = %d, want 0", summary.TotalSearches)
	}
}

func TestAnalyticsExport(t *testing.T) {
	dir := t.TempDir()
	execute(t, dir, "search", "hooks")

	execute(t, dir, "analytics", "export")
	data, err := os.ReadFile(filepath.Join(dir, exportFileName))
	if err != nil {
		t.Fatalf("Expected default export file: %v", err)
	}
	if !strings.Contains(string(data), `"totalSearches": 1`) {
		t.Errorf("Unexpected export:\n%s", data)
	}

	out := execute(t, dir, "analytics", "export", "-o", "-")
	if !strings.Contains(out, `"totalSearches": 1`) {
		t.Errorf("Unexpected stdout export:\n%s", out)
	}
}

func TestRecentCommand(t *testing.T) {
	dir := t.TempDir()

	execute(t, dir, "click", "wallets", "wallets")
	execute(t, dir, "click", "hooks", "hooks")

	out := execute(t, dir, "recent")
	if strings.Index(out, "hooks") > strings.Index(out, "wallets") {
		t.Errorf("Expected most recent first:\n%s", out)
	}

	execute(t, dir, "recent", "--clear")
	out = execute(t, dir, "recent")
	if !strings.Contains(out, "No recent searches.") {
		t.Errorf("Expected empty history:\n%s", out)
	}
}

func TestTimingCommand(t *testing.T) {
	dir := t.TempDir()

	for i := 0; i < 5; i++ {
		execute(t, dir, "search", "wallet")
	}
	out := execute(t, dir, "timing", "wallet", "120")
	if !strings.Contains(out, "Timing recorded.") {
		t.Errorf("Expected timing to be recorded, got:\n%s", out)
	}
	out = execute(t, dir, "timing", "kubernetes", "50")
	if !strings.Contains(out, "No untimed search") {
		t.Errorf("Expected no matching search, got:\n%s", out)
	}

	var summary analytics.Summary
	if err := json.Unmarshal([]byte(execute(t, dir, "analytics", "show", "--json")), &summary); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if summary.AverageTimeToFirstResult != 120 {
		t.Errorf("AverageTimeToFirstResult = %v, want 120", summary.AverageTimeToFirstResult)
	}

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(dir, "missing.yml"), "--data-dir", dir, "timing", "--", "wallet", "-3"})
	if err := cmd.Execute(); err == nil {
		t.Error("Expected error for negative milliseconds")
	}
}

func TestSuggestAndShow(t *testing.T) {
	dir := t.TempDir()

	out := execute(t, dir, "suggest", "wallet")
	if !strings.Contains(strings.ToLower(out), "wallet") {
		t.Errorf("Expected wallet suggestions:\n%s", out)
	}

	out = execute(t, dir, "show", "installation")
	if !strings.Contains(out, `"id": "installation"`) {
		t.Errorf("Unexpected document output:\n%s", out)
	}
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docsearch.yml")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", path, "config", "init"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Driver != config.DriverFile {
		t.Errorf("Driver = %q, want %q", cfg.Storage.Driver, config.DriverFile)
	}

	cmd = newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", path, "config", "init"})
	if err := cmd.Execute(); err == nil {
		t.Error("Expected error when config exists")
	}
}
