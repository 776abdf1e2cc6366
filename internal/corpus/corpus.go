// Package corpus holds the immutable set of documents the search engine runs over.
package corpus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/stellarplus/docsearch/internal/indexing"
)

var (
	ErrDuplicateID = errors.New("duplicate document id")
	ErrInvalid     = errors.New("invalid document")
)

// Corpus is the ordered, read-only collection of documents. It is built once
// at startup and shared by every reader.
type Corpus struct {
	docs        []indexing.Document
	byID        map[string]int
	generatedAt time.Time
}

// New builds a corpus from docs, preserving their order
func New(docs []indexing.Document) (*Corpus, error) {
	c := &Corpus{
		docs: make([]indexing.Document, len(docs)),
		byID: make(map[string]int, len(docs)),
	}
	copy(c.docs, docs)

	for i, doc := range c.docs {
		if err := validateDocument(doc); err != nil {
			return nil, fmt.Errorf("document %d (%q): %w", i, doc.ID, err)
		}
		if _, exists := c.byID[doc.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, doc.ID)
		}
		c.byID[doc.ID] = i
	}
	return c, nil
}

func validateDocument(doc indexing.Document) error {
	switch {
	case doc.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalid)
	case strings.TrimSpace(doc.Title) == "":
		return fmt.Errorf("%w: empty title", ErrInvalid)
	case doc.Href == "":
		return fmt.Errorf("%w: empty href", ErrInvalid)
	case !doc.Section.Valid():
		return fmt.Errorf("%w: unknown section %q", ErrInvalid, doc.Section)
	case !doc.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalid, doc.Category)
	case !doc.Difficulty.Valid():
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalid, doc.Difficulty)
	case doc.Popularity < indexing.MinPopularity || doc.Popularity > indexing.MaxPopularity:
		return fmt.Errorf("%w: popularity %d out of range", ErrInvalid, doc.Popularity)
	}
	if dup := firstDuplicate(doc.Tags); dup != "" {
		return fmt.Errorf("%w: duplicate tag %q", ErrInvalid, dup)
	}
	if dup := firstDuplicate(doc.Keywords); dup != "" {
		return fmt.Errorf("%w: duplicate keyword %q", ErrInvalid, dup)
	}
	return nil
}

func firstDuplicate(values []string) string {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if seen[v] {
			return v
		}
		seen[v] = true
	}
	return ""
}

// Load parses and validates a serialized search index. Both the artifact
// written by the extractor and a bare JSON array of documents are accepted.
func Load(data []byte) (*Corpus, error) {
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	bare := false
	if docs, ok := instance.([]any); ok {
		bare = true
		instance = map[string]any{
			"schemaVersion": json.Number("1"),
			"documents":     docs,
		}
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(instance); err != nil {
		return nil, fmt.Errorf("search index does not match schema: %w", err)
	}

	var artifact indexing.Artifact
	if bare {
		err = json.Unmarshal(data, &artifact.Documents)
	} else {
		err = json.Unmarshal(data, &artifact)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode search index: %w", err)
	}

	c, err := New(artifact.Documents)
	if err != nil {
		return nil, err
	}
	c.generatedAt = artifact.GeneratedAt
	return c, nil
}

// LoadFile loads a search index from disk
func LoadFile(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read search index: %w", err)
	}
	c, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadDefault loads the search index bundled with provider
func LoadDefault(provider DataProvider) (*Corpus, error) {
	data, err := provider.ReadFile(defaultIndexFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundled search index: %w", err)
	}
	return Load(data)
}

// Documents returns the documents in corpus order. Callers must not modify the slice.
func (c *Corpus) Documents() []indexing.Document {
	return c.docs
}

func (c *Corpus) Len() int {
	return len(c.docs)
}

// ByID looks up a document by id
func (c *Corpus) ByID(id string) (indexing.Document, bool) {
	i, ok := c.byID[id]
	if !ok {
		return indexing.Document{}, false
	}
	return c.docs[i], true
}

// GeneratedAt reports when the index was produced; zero when unknown
func (c *Corpus) GeneratedAt() time.Time {
	return c.generatedAt
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = compileSchema(NewEmbeddedDataProvider())
	})
	return schema, schemaErr
}

func compileSchema(provider DataProvider) (*jsonschema.Schema, error) {
	raw, err := provider.ReadFile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	schemaDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("schema is not valid JSON: %w", err)
	}

	const schemaURL = "search-index.schema.json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, schemaDoc); err != nil {
		return nil, fmt.Errorf("failed to add schema: %w", err)
	}
	compiled, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("schema compilation error: %w", err)
	}
	return compiled, nil
}

// SchemaProblems flattens a schema validation error into "location: failed keyword" lines
func SchemaProblems(err error) []string {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return nil
	}
	return collectProblems(validationErr)
}

func collectProblems(validationErr *jsonschema.ValidationError) []string {
	if len(validationErr.Causes) == 0 {
		path := "$"
		if len(validationErr.InstanceLocation) > 0 {
			path = "$." + strings.Join(validationErr.InstanceLocation, ".")
		}
		keyword := "schema"
		if validationErr.ErrorKind != nil {
			keyword = strings.Join(validationErr.ErrorKind.KeywordPath(), "/")
		}
		return []string{fmt.Sprintf("%s: failed %s", path, keyword)}
	}
	var problems []string
	for _, cause := range validationErr.Causes {
		problems = append(problems, collectProblems(cause)...)
	}
	return problems
}
