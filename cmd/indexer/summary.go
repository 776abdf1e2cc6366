package main

import (
	"fmt"
	"io"
	"time"

	"github.com/stellarplus/docsearch/internal/indexing"
)

func printSummary(w io.Writer, result *indexing.Result, output string) {
	fmt.Fprintln(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Fprintf(w, "✓ Indexed %d of %d pages in %s\n", len(result.Documents), result.Files, result.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "  Output: %s\n", output)

	bySection := make(map[indexing.Section]int)
	for _, doc := range result.Documents {
		bySection[doc.Section]++
	}
	for _, section := range indexing.AllSections {
		if n := bySection[section]; n > 0 {
			fmt.Fprintf(w, "  %-16s %d\n", section, n)
		}
	}

	if len(result.Failures) > 0 {
		fmt.Fprintf(w, "✗ %d pages failed:\n", len(result.Failures))
		for _, f := range result.Failures {
			fmt.Fprintf(w, "  %s\n", f.Error())
		}
	}
}
