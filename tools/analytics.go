package tools

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/stellarplus/docsearch/internal/analytics"
)

// ExportFileName is the default export file, inside the data directory
const ExportFileName = "search-analytics.json"

func (d *DocSearchTools) GetSearchAnalytics(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, analytics.Summary, error) {
	return nil, d.app.Tracker.Analytics(), nil
}

func (d *DocSearchTools) ClearSearchAnalytics(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, ClearedOutput, error) {
	d.app.Tracker.Clear(ctx)
	return nil, ClearedOutput{Cleared: true}, nil
}

// ExportSearchAnalyticsInput defines input for export_search_analytics tool
type ExportSearchAnalyticsInput struct {
	Path string `json:"path,omitempty" jsonschema:"Destination file (optional, defaults to search-analytics.json in the data directory)"`
}

// ExportSearchAnalyticsOutput defines output for export_search_analytics tool
type ExportSearchAnalyticsOutput struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// ExportSearchAnalytics writes the analytics summary to a JSON file and
// returns what was written.
func (d *DocSearchTools) ExportSearchAnalytics(ctx context.Context, req *mcp.CallToolRequest, input ExportSearchAnalyticsInput) (*mcp.CallToolResult, ExportSearchAnalyticsOutput, error) {
	path := input.Path
	if path == "" {
		path = filepath.Join(d.app.DataDir, ExportFileName)
	}

	var buf bytes.Buffer
	if err := d.app.Tracker.Export(&buf); err != nil {
		return nil, ExportSearchAnalyticsOutput{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, ExportSearchAnalyticsOutput{}, fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return nil, ExportSearchAnalyticsOutput{}, fmt.Errorf("failed to write export: %w", err)
	}

	d.logger.Info("search analytics exported", "path", path)
	return nil, ExportSearchAnalyticsOutput{Path: path, Content: buf.String()}, nil
}
