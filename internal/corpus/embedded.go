package corpus

import (
	"embed"
)

//go:embed data/search-index.json data/search-index.schema.json
var embeddedFS embed.FS

const (
	defaultIndexFile = "data/search-index.json"
	schemaFile       = "data/search-index.schema.json"
)

// NewEmbeddedDataProvider returns the files compiled into the binary
func NewEmbeddedDataProvider() DataProvider {
	return embeddedFS
}
