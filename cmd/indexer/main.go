// Command indexer extracts the documentation pages into the search index
// artifact loaded by the server, and optionally a prebuilt full-text index.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
