package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stellarplus/docsearch/internal/search"
)

func TestSearchRecordsEvent(t *testing.T) {
	a, err := New(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()
	ctx := context.Background()

	docs, err := a.Search(ctx, "deployment", search.Filters{Difficulty: []string{"intermediate"}}, search.SortDate)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(docs) == 0 {
		t.Fatal("Expected intermediate deployment results")
	}

	events := a.Tracker.Events()
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.Query != "deployment" || e.ResultCount != len(docs) || e.SortBy != "date" {
		t.Errorf("Unexpected event: %+v", e)
	}
	if got := e.Filters["difficulty"]; len(got) != 1 || got[0] != "intermediate" {
		t.Errorf("Filters = %v, want difficulty [intermediate]", e.Filters)
	}
	if e.TimeToFirstResultMs != nil {
		t.Errorf("Expected no time to first result before the client reports one, got %d", *e.TimeToFirstResultMs)
	}
}

func TestTimeToFirstResult(t *testing.T) {
	a, err := New(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := a.Search(ctx, "wallet", search.Filters{}, search.SortRelevance); err != nil {
			t.Fatalf("Search() error = %v", err)
		}
	}
	if got := a.Tracker.Analytics().AverageTimeToFirstResult; got != 0 {
		t.Errorf("AverageTimeToFirstResult = %v before any report, want 0", got)
	}

	tracked, err := a.TimeToFirstResult(ctx, "wallet", 120)
	if err != nil {
		t.Fatalf("TimeToFirstResult() error = %v", err)
	}
	if !tracked {
		t.Error("Expected measurement to attach to a wallet search")
	}
	if got := a.Tracker.Analytics().AverageTimeToFirstResult; got != 120 {
		t.Errorf("AverageTimeToFirstResult = %v, want 120", got)
	}

	if _, err := a.TimeToFirstResult(ctx, "wallet", -1); !errors.Is(err, ErrNegativeDuration) {
		t.Errorf("TimeToFirstResult(-1) error = %v, want ErrNegativeDuration", err)
	}
	if tracked, _ := a.TimeToFirstResult(ctx, "never searched", 10); tracked {
		t.Error("Expected no event for a query that was never searched")
	}
}

func TestSearchBlankQueryNotRecorded(t *testing.T) {
	a, err := New(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	docs, err := a.Search(context.Background(), "  ", search.Filters{}, search.SortRelevance)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("Expected no results, got %d", len(docs))
	}
	if n := len(a.Tracker.Events()); n != 0 {
		t.Errorf("Expected no events, got %d", n)
	}
}

func TestClick(t *testing.T) {
	a, err := New(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()
	ctx := context.Background()

	if _, err := a.Search(ctx, "hooks", search.Filters{}, search.SortRelevance); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	tracked, recent := a.Click(ctx, "hooks", "hooks")
	if !tracked {
		t.Error("Expected click to be tracked")
	}
	if len(recent) != 1 || recent[0] != "hooks" {
		t.Errorf("recent = %v, want [hooks]", recent)
	}
	if got := a.Tracker.Events()[0].ClickedResultID; got != "hooks" {
		t.Errorf("ClickedResultID = %q, want hooks", got)
	}
}

func TestDocument(t *testing.T) {
	a, err := New(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, ok, err := a.Document("wallets"); err != nil || !ok {
		t.Errorf("Document(wallets) ok = %v, err = %v", ok, err)
	}
	if _, ok, _ := a.Document("missing"); ok {
		t.Error("Expected missing document")
	}

	a.Close()
	if _, _, err := a.Document("wallets"); err != ErrClosed {
		t.Errorf("Document() after Close error = %v, want ErrClosed", err)
	}
}
