package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stellarplus/docsearch/internal/indexing"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Margin(1, 0, 0, 0)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	statStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

func printDocument(w io.Writer, n int, doc indexing.Document) {
	fmt.Fprintf(w, "%2d. %s\n", n, titleStyle.Render(doc.Title))
	fmt.Fprintf(w, "    %s\n", urlStyle.Render(doc.Href))
	fmt.Fprintf(w, "    %s\n", metaStyle.Render(fmt.Sprintf("%s · %s · %s · %s",
		doc.Section, doc.Category, doc.Difficulty, strings.Join(doc.Tags, ", "))))
	if doc.Excerpt != "" {
		fmt.Fprintf(w, "    %s\n", doc.Excerpt)
	}
}

func printList(w io.Writer, title string, items []string, empty string) {
	fmt.Fprintln(w, headerStyle.Render(title))
	if len(items) == 0 {
		fmt.Fprintln(w, noDataStyle.Render(empty))
		return
	}
	for _, item := range items {
		fmt.Fprintf(w, "  • %s\n", item)
	}
}
