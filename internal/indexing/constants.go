package indexing

const (
	// ExcerptLength is the number of characters kept in a document preview
	ExcerptLength = 200

	// UntitledTitle is used when a page has no heading, <title> or named default export
	UntitledTitle = "Untitled"

	// DefaultBaseHref is prefixed to every relative page path
	DefaultBaseHref = "/docs"

	// MinPopularity and MaxPopularity bound Document.Popularity
	MinPopularity = 0
	MaxPopularity = 100

	// ArtifactSchemaVersion increments when the Document layout changes
	// v1: flat document array, v2: wrapped artifact with generation metadata
	ArtifactSchemaVersion = 2
)
