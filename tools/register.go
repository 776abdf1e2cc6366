package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register adds every documentation search tool to server and returns how
// many were registered.
func (d *DocSearchTools) Register(server *mcp.Server) int {
	count := 0
	add := func() { count++ }

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "search_docs",
			Description: "Search the documentation by substring over titles, content, tags and keywords. Supports section, category, difficulty and tag filters and relevance, popularity or date ordering. Returns at most 20 results plus query suggestions.",
		},
		d.SearchDocs,
	)
	add()

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "suggest_queries",
			Description: "Complete a partial query from the curated suggestion dictionary (max 8).",
		},
		d.SuggestQueries,
	)
	add()

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "popular_searches",
			Description: "List popular search phrases to offer before the user has typed anything.",
		},
		d.PopularSearches,
	)
	add()

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "filter_options",
			Description: "List the sections, categories, difficulties, tags and sort modes search_docs accepts.",
		},
		d.FilterOptions,
	)
	add()

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "track_result_click",
			Description: "Record that a search result was opened. Attaches to the latest search for the query that has no click yet and adds the query to recent searches.",
		},
		d.TrackResultClick,
	)
	add()

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "track_time_to_first_result",
			Description: "Report how long the client took to show the first result for a query, measured from the start of typing. Attaches to the latest search for the query that has no timing yet.",
		},
		d.TrackTimeToFirstResult,
	)
	add()

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "recent_searches",
			Description: "List recent searches, most recent first (max 10).",
		},
		d.RecentSearches,
	)
	add()

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "clear_recent_searches",
			Description: "Forget the recent search history.",
		},
		d.ClearRecentSearches,
	)
	add()

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "get_search_analytics",
			Description: "Summarise recorded searches: popular and zero-result queries, click-through and abandonment rates, time to first result, top filters and sort modes.",
		},
		d.GetSearchAnalytics,
	)
	add()

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "clear_search_analytics",
			Description: "Delete every recorded search event.",
		},
		d.ClearSearchAnalytics,
	)
	add()

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "export_search_analytics",
			Description: "Write the analytics summary as JSON to a file (defaults to search-analytics.json in the data directory) and return it.",
		},
		d.ExportSearchAnalytics,
	)
	add()

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "fulltext_search",
			Description: "Scored full-text search over the documentation using an analysed index. Complements search_docs when exact substrings do not match.",
		},
		d.FullTextSearch,
	)
	add()

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "get_document",
			Description: "Fetch a full document by ID, including content, headings and code blocks.",
		},
		d.GetDocument,
	)
	add()

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "reload_corpus",
			Description: "Reload the search index artifact from disk after the indexer regenerated it.",
		},
		d.ReloadCorpus,
	)
	add()

	d.logger.Info("documentation search tools registered", "count", count)
	return count
}
