// Package metrics defines the Prometheus collectors for the search subsystem
// and serves them for scraping.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all collectors. They live on a private registry so several
// instances can coexist in one process (tests, the indexer's watch mode).
type Metrics struct {
	Registry *prometheus.Registry

	QueriesTotal            *prometheus.CounterVec
	ZeroResultQueriesTotal  prometheus.Counter
	ResultsCount            prometheus.Histogram
	ExtractedDocumentsTotal *prometheus.CounterVec
	PersistenceFailures     *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsearch_queries_total",
				Help: "Total search queries by sort mode.",
			},
			[]string{"sort"},
		),
		ZeroResultQueriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "docsearch_zero_result_queries_total",
				Help: "Total search queries that returned no results.",
			},
		),
		ResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "docsearch_results_count",
				Help:    "Number of results returned per search query.",
				Buckets: []float64{0, 1, 2, 5, 10, 20},
			},
		),
		ExtractedDocumentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsearch_extracted_documents_total",
				Help: "Pages processed by the extractor, by status (ok, failed).",
			},
			[]string{"status"},
		),
		PersistenceFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsearch_persistence_failures_total",
				Help: "Failed reads or writes of analytics and history, by operation.",
			},
			[]string{"op"},
		),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.QueriesTotal,
		m.ZeroResultQueriesTotal,
		m.ResultsCount,
		m.ExtractedDocumentsTotal,
		m.PersistenceFailures,
	)

	return m
}

// ObserveSearch records one query and its result count. Safe on a nil receiver.
func (m *Metrics) ObserveSearch(sort string, results int) {
	if m == nil {
		return
	}
	m.QueriesTotal.WithLabelValues(sort).Inc()
	m.ResultsCount.Observe(float64(results))
	if results == 0 {
		m.ZeroResultQueriesTotal.Inc()
	}
}

// ObserveExtraction records an extraction run. Safe on a nil receiver.
func (m *Metrics) ObserveExtraction(ok, failed int) {
	if m == nil {
		return
	}
	m.ExtractedDocumentsTotal.WithLabelValues("ok").Add(float64(ok))
	m.ExtractedDocumentsTotal.WithLabelValues("failed").Add(float64(failed))
}

// PersistenceFailed counts a failed load, save or delete. Safe on a nil receiver.
func (m *Metrics) PersistenceFailed(op string) {
	if m == nil {
		return
	}
	m.PersistenceFailures.WithLabelValues(op).Inc()
}

// Handler returns the scrape handler for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down metrics server: %w", err)
		}
		return nil
	}
}
