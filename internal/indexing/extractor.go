package indexing

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/stellarplus/docsearch/internal/progress"
)

// DefaultInclude matches every page format the parsers understand
var DefaultInclude = []string{"**/*.tsx", "**/*.jsx", "**/*.md", "**/*.mdx", "**/*.html", "**/*.htm"}

// DefaultExclude skips layout components, which hold no page content
var DefaultExclude = []string{"**/layout.tsx", "**/layout.jsx"}

// skippedDirs are never descended into
var skippedDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	".next":        true,
}

// Options configures an extraction run
type Options struct {
	BaseHref   string
	Include    []string
	Exclude    []string
	Popularity map[string]int // href -> score
	Reporter   progress.Reporter
	Logger     *slog.Logger
}

// Failure records a page that could not be extracted
type Failure struct {
	Path string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

// Result is the outcome of one extraction run
type Result struct {
	Documents []Document
	Failures  []Failure
	Files     int
	Elapsed   time.Duration
}

// Extractor turns a directory of page sources into Documents
type Extractor struct {
	opts Options
}

func NewExtractor(opts Options) *Extractor {
	if opts.BaseHref == "" {
		opts.BaseHref = DefaultBaseHref
	}
	if len(opts.Include) == 0 {
		opts.Include = DefaultInclude
	}
	if opts.Exclude == nil {
		opts.Exclude = DefaultExclude
	}
	if opts.Reporter == nil {
		opts.Reporter = progress.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Extractor{opts: opts}
}

// Discover lists the pages under root as slash-separated relative paths, sorted.
func (e *Extractor) Discover(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if p == root {
				return walkErr
			}
			e.opts.Logger.Warn("skipping unreadable path", "path", p, "error", walkErr)
			return nil
		}
		if d.IsDir() {
			if p != root && skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !SupportedExtensions[strings.ToLower(path.Ext(rel))] {
			return nil
		}
		if matchesAny(rel, e.opts.Include) && !matchesAny(rel, e.opts.Exclude) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

func matchesAny(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// Run extracts every discovered page. A page that fails is logged and
// recorded in Result.Failures; the run continues with the remaining pages.
// Document ids follow discovery order, so they are stable across runs even
// when some pages fail.
func (e *Extractor) Run(ctx context.Context, root string) (*Result, error) {
	start := time.Now()
	files, err := e.Discover(root)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Documents: make([]Document, 0, len(files)),
		Files:     len(files),
	}

	e.opts.Reporter.Start(len(files))
	for i, rel := range files {
		if err := ctx.Err(); err != nil {
			e.opts.Reporter.Finish()
			return nil, err
		}
		e.opts.Reporter.Update(i+1, rel)

		doc, err := e.ExtractFile(root, rel, fmt.Sprintf("doc-%d", i))
		if err != nil {
			e.opts.Logger.Warn("skipping page", "path", rel, "error", err)
			result.Failures = append(result.Failures, Failure{Path: rel, Err: err})
			continue
		}
		result.Documents = append(result.Documents, doc)
	}
	e.opts.Reporter.Finish()

	result.Elapsed = time.Since(start)
	e.opts.Logger.Info("extraction finished",
		"pages", len(files),
		"documents", len(result.Documents),
		"failures", len(result.Failures),
		"elapsed", result.Elapsed.Round(time.Millisecond))
	return result, nil
}

// ExtractFile reads and parses one page into a Document with the given id
func (e *Extractor) ExtractFile(root, rel, id string) (Document, error) {
	full := filepath.Join(root, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil {
		return Document{}, fmt.Errorf("failed to stat page: %w", err)
	}
	src, err := os.ReadFile(full)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read page: %w", err)
	}

	parser, err := ParserFor(rel)
	if err != nil {
		return Document{}, err
	}
	extracted, err := parser.Parse(src)
	if err != nil {
		return Document{}, fmt.Errorf("failed to parse page: %w", err)
	}

	href := Href(e.opts.BaseHref, rel)
	return BuildDocument(id, rel, href, extracted, info.ModTime().UTC(), e.opts.Popularity[href]), nil
}

// BuildDocument combines extracted text with the path-derived metadata
func BuildDocument(id, rel, href string, ex Extracted, modified time.Time, popularity int) Document {
	section, category := ClassifyPath(rel)
	title := ex.Title
	if title == "" {
		title = UntitledTitle
	}
	return Document{
		ID:           id,
		Title:        title,
		Href:         href,
		Excerpt:      Excerpt(ex.Content),
		Content:      ex.Content,
		Section:      section,
		Category:     category,
		Difficulty:   ClassifyDifficulty(ex.Content),
		Tags:         nonNil(ex.Tags),
		Keywords:     nonNil(ex.Keywords),
		Headings:     nonNil(ex.Headings),
		CodeBlocks:   nonNil(ex.CodeBlocks),
		LastModified: modified,
		Popularity:   clampPopularity(popularity),
	}
}

// Href builds the site path of a page. The extension and a trailing
// "page"/"index" segment are dropped: "hooks/page.tsx" -> "/docs/hooks".
func Href(baseHref, rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	switch base := path.Base(rel); base {
	case "page", "index":
		rel = path.Dir(rel)
	}
	if rel == "." {
		rel = ""
	}

	baseHref = strings.TrimSuffix(baseHref, "/")
	if rel == "" {
		if baseHref == "" {
			return "/"
		}
		return baseHref
	}
	return baseHref + "/" + strings.TrimPrefix(rel, "/")
}

func clampPopularity(p int) int {
	if p < MinPopularity {
		return MinPopularity
	}
	if p > MaxPopularity {
		return MaxPopularity
	}
	return p
}

// nonNil keeps empty lists serialized as [] rather than null
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
