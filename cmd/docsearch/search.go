package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/stellarplus/docsearch/internal/fulltext"
	"github.com/stellarplus/docsearch/internal/search"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	var (
		filters search.Filters
		sortBy  string
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the documentation",
		Long:  `Case-insensitive substring search over titles, content, tags and keywords. Every search is recorded in the analytics log.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := search.ParseSortMode(sortBy)
			if err != nil {
				return err
			}

			a, err := root.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			docs, err := a.Search(cmd.Context(), args[0], filters, mode)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, docs)
			}
			if len(docs) == 0 {
				fmt.Fprintln(out, noDataStyle.Render("No results found."))
				printList(out, "Try instead", search.Suggest(args[0]), "No suggestions.")
				return nil
			}
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%d results for %q", len(docs), args[0])))
			for i, doc := range docs {
				printDocument(out, i+1, doc)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&filters.Section, "section", nil, "only these sections")
	f.StringSliceVar(&filters.Category, "category", nil, "only these categories")
	f.StringSliceVar(&filters.Difficulty, "difficulty", nil, "only these difficulty levels")
	f.StringSliceVar(&filters.Tags, "tag", nil, "only documents with one of these tags")
	f.StringVar(&sortBy, "sort", string(search.SortRelevance), "relevance, popularity or date")
	f.BoolVar(&jsonOut, "json", false, "output results as JSON")
	return cmd
}

func newFullTextCmd(root *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "fulltext <query>",
		Short: "Scored full-text search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			snap, release, err := a.Acquire()
			if err != nil {
				return err
			}
			defer release()

			hits, err := fulltext.Search(cmd.Context(), snap.FullText, args[0], limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(hits) == 0 {
				fmt.Fprintln(out, noDataStyle.Render("No results found."))
				return nil
			}
			for i, hit := range hits {
				doc, ok := snap.Corpus.ByID(hit.ID)
				if !ok {
					continue
				}
				printDocument(out, i+1, doc)
				fmt.Fprintf(out, "    %s\n", metaStyle.Render(fmt.Sprintf("score %.3f", hit.Score)))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", fulltext.DefaultLimit, "maximum number of results")
	return cmd
}

func newShowCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			doc, ok, err := a.Document(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("document %q not found", args[0])
			}
			return writeJSON(cmd.OutOrStdout(), doc)
		},
	}
}

func newSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <partial>",
		Short: "Complete a partial query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printList(cmd.OutOrStdout(), "Suggestions", search.Suggest(args[0]), "No suggestions.")
			return nil
		},
	}
}

func newPopularCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "popular",
		Short: "List popular search phrases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printList(cmd.OutOrStdout(), "Popular searches", search.PopularSearches(), "")
			return nil
		},
	}
}

func newRecentCmd(root *rootOptions) *cobra.Command {
	var clearHistory bool
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List or clear recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if clearHistory {
				a.History.Clear(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), "Recent searches cleared.")
				return nil
			}
			printList(cmd.OutOrStdout(), "Recent searches", a.History.List(), "No recent searches.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearHistory, "clear", false, "forget recent searches")
	return cmd
}

func newClickCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "click <query> <result-id>",
		Short: "Record that a result was opened",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			tracked, _ := a.Click(cmd.Context(), args[0], args[1])
			if !tracked {
				fmt.Fprintf(cmd.OutOrStdout(), "No open search for %q; added to recent searches only.\n", args[0])
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Click recorded.")
			return nil
		},
	}
}

func newTimingCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "timing <query> <ms>",
		Short: "Record how long the first result for a query took to appear",
		Long: `Record the time from the start of typing until the first result for query
was shown. Attaches to the latest search for the query that has no timing yet.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid milliseconds %q: %w", args[1], err)
			}
			a, err := root.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			tracked, err := a.TimeToFirstResult(cmd.Context(), args[0], ms)
			if err != nil {
				return err
			}
			if !tracked {
				fmt.Fprintf(cmd.OutOrStdout(), "No untimed search for %q.\n", args[0])
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Timing recorded.")
			return nil
		},
	}
}
