// Package app wires configuration, storage, the corpus and the search
// components together. Both the MCP server and the docsearch CLI build one.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stellarplus/docsearch/internal/analytics"
	"github.com/stellarplus/docsearch/internal/config"
	"github.com/stellarplus/docsearch/internal/corpus"
	"github.com/stellarplus/docsearch/internal/fulltext"
	"github.com/stellarplus/docsearch/internal/kvstore"
	"github.com/stellarplus/docsearch/internal/logger"
	"github.com/stellarplus/docsearch/internal/metrics"
)

var ErrClosed = errors.New("app closed")

type App struct {
	Config  *config.Config
	DataDir string
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	Store   kvstore.Store
	Tracker *analytics.Tracker
	History *analytics.History

	holder snapshotHolder
}

// snapshotHolder manages concurrent access to the corpus snapshot
type snapshotHolder struct {
	// current holds the active snapshot (atomic access for lock-free reads)
	current atomic.Pointer[Snapshot]

	// reloadMu prevents concurrent reloads; readers never take it
	reloadMu sync.Mutex
}

// New builds every component from cfg. The caller owns the App and must
// Close it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &App{
		Config:  cfg,
		Logger:  logger.WithComponent("app"),
		Metrics: metrics.New(),
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	a.DataDir = dataDir
	a.Logger.Info("data directory", "path", dataDir)

	snap, err := loadSnapshot(cfg.Corpus, a.Logger)
	if err != nil {
		return nil, err
	}
	a.holder.current.Store(snap)

	// search must work without persisted history, so an unusable store
	// degrades to memory for this process
	a.Store, err = kvstore.Open(ctx, cfg.Storage, dataDir, logger.WithComponent("kvstore"))
	if err != nil {
		a.Logger.Error("storage unavailable, analytics and history kept in memory only",
			"driver", cfg.Storage.Driver, "error", err)
		a.Metrics.PersistenceFailed("open")
		a.Store = kvstore.NewMemory()
	}

	opts := []analytics.Option{
		analytics.WithLogger(logger.WithComponent("analytics")),
		analytics.WithMetrics(a.Metrics),
	}
	a.Tracker = analytics.NewTracker(ctx, a.Store, opts...)
	a.History = analytics.NewHistory(ctx, a.Store, opts...)

	return a, nil
}

// Acquire returns the current snapshot and a release func that must be
// called once the caller is done with it.
func (a *App) Acquire() (*Snapshot, func(), error) {
	for {
		snap := a.holder.current.Load()
		if snap == nil {
			return nil, nil, ErrClosed
		}
		// a retired snapshot has already been swapped out; load again
		if snap.enter() {
			return snap, snap.readers.Done, nil
		}
	}
}

// Reload re-reads the corpus and rebuilds the full-text index, then swaps
// them in. Readers holding the old snapshot keep it until they release; the
// old full-text index is closed after that.
func (a *App) Reload(ctx context.Context) (*Snapshot, error) {
	a.holder.reloadMu.Lock()
	defer a.holder.reloadMu.Unlock()

	if a.holder.current.Load() == nil {
		return nil, ErrClosed
	}

	startTime := time.Now()
	snap, err := loadSnapshot(a.Config.Corpus, a.Logger)
	if err != nil {
		return nil, err
	}

	old := a.holder.current.Swap(snap)
	go func(old *Snapshot) {
		if old == nil {
			return
		}
		old.retire()
		if err := old.FullText.Close(); err != nil {
			a.Logger.Warn("error closing replaced full-text index", "error", err)
		}
	}(old)

	a.Logger.Info("corpus reloaded", "documents", snap.Corpus.Len(),
		"elapsed", time.Since(startTime).Round(time.Millisecond))
	return snap, nil
}

// Close waits for in-flight readers, then releases the full-text index and
// the store.
func (a *App) Close() error {
	var errs []error

	if snap := a.holder.current.Swap(nil); snap != nil {
		snap.retire()
		if err := snap.FullText.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing full-text index: %w", err))
		}
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing storage: %w", err))
		}
	}
	return errors.Join(errs...)
}

// loadSnapshot is the single place a corpus becomes searchable
func loadSnapshot(cfg config.CorpusConfig, log *slog.Logger) (*Snapshot, error) {
	c, err := loadCorpus(cfg)
	if err != nil {
		return nil, err
	}
	idx, err := openFullText(cfg, c, log)
	if err != nil {
		return nil, err
	}
	log.Info("corpus loaded", "documents", c.Len(), "source", corpusSource(cfg))
	return newSnapshot(c, idx), nil
}

func loadCorpus(cfg config.CorpusConfig) (*corpus.Corpus, error) {
	if cfg.Path == "" {
		return corpus.LoadDefault(corpus.NewEmbeddedDataProvider())
	}
	return corpus.LoadFile(cfg.Path)
}

func corpusSource(cfg config.CorpusConfig) string {
	if cfg.Path == "" {
		return "embedded"
	}
	return cfg.Path
}

// openFullText prefers a prebuilt on-disk index and falls back to building
// one in memory from the corpus.
func openFullText(cfg config.CorpusConfig, c *corpus.Corpus, log *slog.Logger) (fulltext.Index, error) {
	if cfg.BleveIndex != "" {
		idx, err := fulltext.Open(cfg.BleveIndex)
		if err == nil {
			return idx, nil
		}
		log.Warn("prebuilt full-text index unusable, rebuilding in memory", "path", cfg.BleveIndex, "error", err)
	}
	idx, err := fulltext.Build(c.Documents())
	if err != nil {
		return nil, fmt.Errorf("failed to build full-text index: %w", err)
	}
	return idx, nil
}
