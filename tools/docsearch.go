package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/stellarplus/docsearch/internal/app"
	"github.com/stellarplus/docsearch/internal/fulltext"
	"github.com/stellarplus/docsearch/internal/indexing"
	"github.com/stellarplus/docsearch/internal/logger"
	"github.com/stellarplus/docsearch/internal/search"
)

// DocSearchTools exposes the search subsystem as MCP tools
type DocSearchTools struct {
	app    *app.App
	logger *slog.Logger
}

func NewDocSearchTools(a *app.App) *DocSearchTools {
	return &DocSearchTools{
		app:    a,
		logger: logger.WithComponent("tools"),
	}
}

// SearchResult is a Document without its full text
type SearchResult struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Href         string    `json:"href"`
	Excerpt      string    `json:"excerpt"`
	Section      string    `json:"section"`
	Category     string    `json:"category"`
	Difficulty   string    `json:"difficulty"`
	Tags         []string  `json:"tags"`
	Popularity   int       `json:"popularity"`
	LastModified time.Time `json:"lastModified"`
}

func newSearchResult(doc indexing.Document) SearchResult {
	return SearchResult{
		ID:           doc.ID,
		Title:        doc.Title,
		Href:         doc.Href,
		Excerpt:      doc.Excerpt,
		Section:      string(doc.Section),
		Category:     string(doc.Category),
		Difficulty:   string(doc.Difficulty),
		Tags:         doc.Tags,
		Popularity:   doc.Popularity,
		LastModified: doc.LastModified,
	}
}

// SearchDocsInput defines input for search_docs tool
type SearchDocsInput struct {
	Query        string   `json:"query" jsonschema:"Search text, matched case-insensitively against titles, content, tags and keywords"`
	Sections     []string `json:"sections,omitempty" jsonschema:"Only return documents in these sections (optional)"`
	Categories   []string `json:"categories,omitempty" jsonschema:"Only return documents in these categories (optional)"`
	Difficulties []string `json:"difficulties,omitempty" jsonschema:"Only return documents at these difficulty levels (optional)"`
	Tags         []string `json:"tags,omitempty" jsonschema:"Only return documents sharing at least one of these tags (optional)"`
	SortBy       string   `json:"sort_by,omitempty" jsonschema:"relevance, popularity or date (optional, defaults to relevance)"`
}

func (in SearchDocsInput) filters() search.Filters {
	return search.Filters{
		Section:    in.Sections,
		Category:   in.Categories,
		Difficulty: in.Difficulties,
		Tags:       in.Tags,
	}
}

// SearchDocsOutput defines output for search_docs tool
type SearchDocsOutput struct {
	Query       string         `json:"query"`
	SortBy      string         `json:"sort_by"`
	Results     []SearchResult `json:"results"`
	Total       int            `json:"total"`
	Suggestions []string       `json:"suggestions"`
}

// SearchDocs runs a query and records it in the analytics log
func (d *DocSearchTools) SearchDocs(ctx context.Context, req *mcp.CallToolRequest, input SearchDocsInput) (*mcp.CallToolResult, SearchDocsOutput, error) {
	sortBy, err := search.ParseSortMode(input.SortBy)
	if err != nil {
		return nil, SearchDocsOutput{}, err
	}

	docs, err := d.app.Search(ctx, input.Query, input.filters(), sortBy)
	if err != nil {
		return nil, SearchDocsOutput{}, err
	}

	output := SearchDocsOutput{
		Query:       input.Query,
		SortBy:      string(sortBy),
		Results:     make([]SearchResult, 0, len(docs)),
		Total:       len(docs),
		Suggestions: search.Suggest(input.Query),
	}
	for _, doc := range docs {
		output.Results = append(output.Results, newSearchResult(doc))
	}

	return nil, output, nil
}

// SuggestQueriesInput defines input for suggest_queries tool
type SuggestQueriesInput struct {
	Query string `json:"query" jsonschema:"Partial query to complete"`
}

// SuggestQueriesOutput defines output for suggest_queries tool
type SuggestQueriesOutput struct {
	Suggestions []string `json:"suggestions"`
}

func (d *DocSearchTools) SuggestQueries(ctx context.Context, req *mcp.CallToolRequest, input SuggestQueriesInput) (*mcp.CallToolResult, SuggestQueriesOutput, error) {
	return nil, SuggestQueriesOutput{Suggestions: search.Suggest(input.Query)}, nil
}

// EmptyInput is used by tools that take no arguments
type EmptyInput struct{}

// QueryListOutput carries a list of query phrases
type QueryListOutput struct {
	Queries []string `json:"queries"`
}

func (d *DocSearchTools) PopularSearches(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, QueryListOutput, error) {
	return nil, QueryListOutput{Queries: search.PopularSearches()}, nil
}

func (d *DocSearchTools) FilterOptions(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, search.Facets, error) {
	return nil, search.FilterOptions(), nil
}

// TrackResultClickInput defines input for track_result_click tool
type TrackResultClickInput struct {
	Query    string `json:"query" jsonschema:"The query whose results were shown"`
	ResultID string `json:"result_id" jsonschema:"ID of the document the user opened"`
}

// TrackResultClickOutput defines output for track_result_click tool
type TrackResultClickOutput struct {
	Tracked        bool     `json:"tracked"`
	RecentSearches []string `json:"recent_searches"`
}

// TrackResultClick attributes a click to the latest open search for the
// query and moves the query to the top of the recent list.
func (d *DocSearchTools) TrackResultClick(ctx context.Context, req *mcp.CallToolRequest, input TrackResultClickInput) (*mcp.CallToolResult, TrackResultClickOutput, error) {
	if input.ResultID == "" {
		return nil, TrackResultClickOutput{}, fmt.Errorf("result_id is required")
	}
	tracked, recent := d.app.Click(ctx, input.Query, input.ResultID)
	return nil, TrackResultClickOutput{Tracked: tracked, RecentSearches: recent}, nil
}

// TrackTimeToFirstResultInput defines input for track_time_to_first_result tool
type TrackTimeToFirstResultInput struct {
	Query string `json:"query" jsonschema:"The query whose first result was shown"`
	Ms    int64  `json:"ms" jsonschema:"Milliseconds from the start of typing until the first result was shown"`
}

// TrackedOutput reports whether a measurement attached to a search event
type TrackedOutput struct {
	Tracked bool `json:"tracked"`
}

func (d *DocSearchTools) TrackTimeToFirstResult(ctx context.Context, req *mcp.CallToolRequest, input TrackTimeToFirstResultInput) (*mcp.CallToolResult, TrackedOutput, error) {
	tracked, err := d.app.TimeToFirstResult(ctx, input.Query, input.Ms)
	if err != nil {
		return nil, TrackedOutput{}, err
	}
	return nil, TrackedOutput{Tracked: tracked}, nil
}

func (d *DocSearchTools) RecentSearches(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, QueryListOutput, error) {
	return nil, QueryListOutput{Queries: d.app.History.List()}, nil
}

// ClearedOutput confirms a clear operation
type ClearedOutput struct {
	Cleared bool `json:"cleared"`
}

func (d *DocSearchTools) ClearRecentSearches(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, ClearedOutput, error) {
	d.app.History.Clear(ctx)
	return nil, ClearedOutput{Cleared: true}, nil
}

// FullTextSearchInput defines input for fulltext_search tool
type FullTextSearchInput struct {
	Query      string `json:"query" jsonschema:"Search query, analysed and scored"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum number of results (optional, defaults to 10, max 20)"`
}

// ScoredResult is a search result with its relevance score
type ScoredResult struct {
	SearchResult
	Score float64 `json:"score"`
}

// FullTextSearchOutput defines output for fulltext_search tool
type FullTextSearchOutput struct {
	Query   string         `json:"query"`
	Results []ScoredResult `json:"results"`
}

// FullTextSearch ranks documents with bleve instead of substring matching
func (d *DocSearchTools) FullTextSearch(ctx context.Context, req *mcp.CallToolRequest, input FullTextSearchInput) (*mcp.CallToolResult, FullTextSearchOutput, error) {
	snap, release, err := d.app.Acquire()
	if err != nil {
		return nil, FullTextSearchOutput{}, err
	}
	defer release()

	hits, err := fulltext.Search(ctx, snap.FullText, input.Query, input.MaxResults)
	if err != nil {
		return nil, FullTextSearchOutput{}, err
	}

	output := FullTextSearchOutput{
		Query:   input.Query,
		Results: make([]ScoredResult, 0, len(hits)),
	}
	for _, hit := range hits {
		doc, ok := snap.Corpus.ByID(hit.ID)
		if !ok {
			d.logger.Warn("full-text hit not in corpus", "id", hit.ID)
			continue
		}
		output.Results = append(output.Results, ScoredResult{SearchResult: newSearchResult(doc), Score: hit.Score})
	}
	return nil, output, nil
}

// GetDocumentInput defines input for get_document tool
type GetDocumentInput struct {
	ID string `json:"id" jsonschema:"Document ID as returned by search_docs"`
}

// GetDocument returns a full document, including content and code blocks
func (d *DocSearchTools) GetDocument(ctx context.Context, req *mcp.CallToolRequest, input GetDocumentInput) (*mcp.CallToolResult, indexing.Document, error) {
	doc, ok, err := d.app.Document(input.ID)
	if err != nil {
		return nil, indexing.Document{}, err
	}
	if !ok {
		return nil, indexing.Document{}, fmt.Errorf("document %q not found", input.ID)
	}
	return nil, doc, nil
}

// ReloadCorpusOutput defines output for reload_corpus tool
type ReloadCorpusOutput struct {
	Documents   int       `json:"documents"`
	GeneratedAt time.Time `json:"generated_at"`
	Message     string    `json:"message"`
}

// ReloadCorpus re-reads the search index artifact, e.g. after the indexer ran
func (d *DocSearchTools) ReloadCorpus(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, ReloadCorpusOutput, error) {
	snap, err := d.app.Reload(ctx)
	if err != nil {
		return nil, ReloadCorpusOutput{}, fmt.Errorf("reload failed: %w", err)
	}
	return nil, ReloadCorpusOutput{
		Documents:   snap.Corpus.Len(),
		GeneratedAt: snap.Corpus.GeneratedAt(),
		Message:     fmt.Sprintf("Corpus reloaded, %d documents searchable", snap.Corpus.Len()),
	}, nil
}
