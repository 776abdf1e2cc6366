package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSearch(t *testing.T) {
	m := New()
	m.ObserveSearch("relevance", 3)
	m.ObserveSearch("relevance", 0)
	m.ObserveSearch("date", 1)

	if got := testutil.ToFloat64(m.QueriesTotal.WithLabelValues("relevance")); got != 2 {
		t.Errorf("relevance queries = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.QueriesTotal.WithLabelValues("date")); got != 1 {
		t.Errorf("date queries = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ZeroResultQueriesTotal); got != 1 {
		t.Errorf("zero result queries = %v, want 1", got)
	}
}

func TestObserveExtractionAndPersistence(t *testing.T) {
	m := New()
	m.ObserveExtraction(10, 2)
	m.PersistenceFailed("save")
	m.PersistenceFailed("save")

	if got := testutil.ToFloat64(m.ExtractedDocumentsTotal.WithLabelValues("ok")); got != 10 {
		t.Errorf("ok = %v, want 10", got)
	}
	if got := testutil.ToFloat64(m.ExtractedDocumentsTotal.WithLabelValues("failed")); got != 2 {
		t.Errorf("failed = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.PersistenceFailures.WithLabelValues("save")); got != 2 {
		t.Errorf("save failures = %v, want 2", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveSearch("relevance", 0)
	m.ObserveExtraction(1, 1)
	m.PersistenceFailed("load")
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveSearch("popularity", 5)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `docsearch_queries_total{sort="popularity"} 1`) {
		t.Errorf("Expected query counter in scrape output, got:\n%s", body)
	}
}
