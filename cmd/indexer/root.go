package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stellarplus/docsearch/internal/config"
	"github.com/stellarplus/docsearch/internal/fulltext"
	"github.com/stellarplus/docsearch/internal/indexing"
	"github.com/stellarplus/docsearch/internal/logger"
	"github.com/stellarplus/docsearch/internal/metrics"
	"github.com/stellarplus/docsearch/internal/progress"
)

type options struct {
	configFile  string
	baseHref    string
	include     []string
	exclude     []string
	bleveIndex  string
	watch       bool
	metricsAddr string
	quiet       bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "indexer <docs-dir> <output.json>",
		Short: "Extract documentation pages into a search index",
		Long: `Walks a documentation source tree, extracts title, content, headings,
code blocks and metadata from every page and writes the search index artifact.
Pages that fail to parse are reported and skipped.`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args[0], args[1])
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configFile, "config", config.DefaultConfigFile, "config file path")
	f.StringVar(&opts.baseHref, "base-href", "", "href prefix for extracted pages (overrides config)")
	f.StringSliceVar(&opts.include, "include", nil, "glob patterns of pages to extract (overrides config)")
	f.StringSliceVar(&opts.exclude, "exclude", nil, "glob patterns of pages to skip (overrides config)")
	f.StringVar(&opts.bleveIndex, "bleve-index", "", "also build a full-text index at this path")
	f.BoolVar(&opts.watch, "watch", false, "rebuild whenever a page changes")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve extraction metrics on this address while watching")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "no progress bar")
	return cmd
}

// indexer holds everything one build needs, so watch mode can rebuild
type indexer struct {
	extractor  *indexing.Extractor
	output     string
	bleveIndex string
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func run(ctx context.Context, opts *options, docsDir, output string) error {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}
	applyFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	log := logger.WithComponent("indexer")

	var reporter progress.Reporter = progress.NewReporter()
	if opts.quiet || opts.watch {
		reporter = progress.Nop{}
	}

	ix := &indexer{
		extractor: indexing.NewExtractor(indexing.Options{
			BaseHref:   cfg.Indexer.BaseHref,
			Include:    cfg.Indexer.Include,
			Exclude:    cfg.Indexer.Exclude,
			Popularity: cfg.Indexer.Popularity,
			Reporter:   reporter,
			Logger:     log,
		}),
		output:     output,
		bleveIndex: cfg.Corpus.BleveIndex,
		metrics:    metrics.New(),
		logger:     log,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := ix.build(ctx, docsDir)
	if err != nil {
		return err
	}
	printSummary(os.Stderr, result, output)

	if !opts.watch {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	if opts.metricsAddr != "" {
		g.Go(func() error {
			return ix.metrics.Serve(ctx, opts.metricsAddr)
		})
	}
	g.Go(func() error {
		return ix.watch(ctx, docsDir)
	})
	return g.Wait()
}

func applyFlags(cfg *config.Config, opts *options) {
	if opts.baseHref != "" {
		cfg.Indexer.BaseHref = opts.baseHref
	}
	if len(opts.include) > 0 {
		cfg.Indexer.Include = opts.include
	}
	if len(opts.exclude) > 0 {
		cfg.Indexer.Exclude = opts.exclude
	}
	if opts.bleveIndex != "" {
		cfg.Corpus.BleveIndex = opts.bleveIndex
	}
}

// build runs one extraction and writes the outputs. Per-page failures are
// part of the result, not an error.
func (ix *indexer) build(ctx context.Context, docsDir string) (*indexing.Result, error) {
	result, err := ix.extractor.Run(ctx, docsDir)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}
	ix.metrics.ObserveExtraction(len(result.Documents), len(result.Failures))

	artifact := indexing.NewArtifact(result.Documents, time.Now())
	if err := indexing.WriteArtifact(ix.output, artifact); err != nil {
		return nil, err
	}
	ix.logger.Info("search index written", "path", ix.output, "documents", len(result.Documents))

	if ix.bleveIndex != "" {
		if err := fulltext.BuildOnDisk(ix.bleveIndex, result.Documents, ix.logger); err != nil {
			return nil, fmt.Errorf("failed to build full-text index: %w", err)
		}
		ix.logger.Info("full-text index written", "path", ix.bleveIndex)
	}
	return result, nil
}
