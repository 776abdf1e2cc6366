package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stellarplus/docsearch/internal/analytics"
)

const exportFileName = "search-analytics.json"

func newAnalyticsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Inspect recorded searches",
	}
	cmd.AddCommand(
		newAnalyticsShowCmd(root),
		newAnalyticsClearCmd(root),
		newAnalyticsExportCmd(root),
	)
	return cmd
}

func newAnalyticsShowCmd(root *rootOptions) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Summarise recorded searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			summary := a.Tracker.Analytics()
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

func newAnalyticsClearCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			a.Tracker.Clear(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Search analytics cleared.")
			return nil
		},
	}
}

func newAnalyticsExportCmd(root *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the analytics summary to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if output == "" {
				output = filepath.Join(a.DataDir, exportFileName)
			}
			if output == "-" {
				return a.Tracker.Export(cmd.OutOrStdout())
			}

			if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
				return fmt.Errorf("failed to create export directory: %w", err)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create export: %w", err)
			}
			if err := a.Tracker.Export(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination file, - for stdout (default: data dir)")
	return cmd
}

func printSummary(w io.Writer, s analytics.Summary) {
	stats := []string{
		fmt.Sprintf("Searches           %d", s.TotalSearches),
		fmt.Sprintf("Avg results        %.1f", s.AverageResultsPerQuery),
		fmt.Sprintf("Click-through      %.0f%%", s.ClickThroughRate*100),
		fmt.Sprintf("Abandonment        %.0f%%", s.SearchAbandonmentRate*100),
		fmt.Sprintf("Time to 1st result %.0fms", s.AverageTimeToFirstResult),
	}
	fmt.Fprintln(w, statStyle.Render(strings.Join(stats, "\n")))

	popular := make([]string, 0, len(s.PopularSearches))
	for _, q := range s.PopularSearches {
		popular = append(popular, fmt.Sprintf("%s (%d)", q.Query, q.Count))
	}
	printList(w, "Popular searches", popular, "None yet.")
	printList(w, "Queries with no results", s.NoResultsQueries, "None.")

	filters := make([]string, 0, len(s.TopFilters))
	for _, f := range s.TopFilters {
		filters = append(filters, fmt.Sprintf("%s (%d)", f.Filter, f.Count))
	}
	printList(w, "Top filters", filters, "None.")

	modes := make([]string, 0, len(s.TopSortMethods))
	for mode := range s.TopSortMethods {
		modes = append(modes, mode)
	}
	sort.Slice(modes, func(i, j int) bool {
		if s.TopSortMethods[modes[i]] != s.TopSortMethods[modes[j]] {
			return s.TopSortMethods[modes[i]] > s.TopSortMethods[modes[j]]
		}
		return modes[i] < modes[j]
	})
	for i, mode := range modes {
		modes[i] = fmt.Sprintf("%s (%d)", mode, s.TopSortMethods[mode])
	}
	printList(w, "Sort methods", modes, "None.")
}
