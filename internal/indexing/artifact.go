package indexing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Artifact is the serialized corpus written by the extractor and loaded by
// the search runtime.
type Artifact struct {
	SchemaVersion int        `json:"schemaVersion"`
	GeneratedAt   time.Time  `json:"generatedAt"`
	Documents     []Document `json:"documents"`
}

// NewArtifact wraps docs with the current schema version
func NewArtifact(docs []Document, generatedAt time.Time) Artifact {
	if docs == nil {
		docs = []Document{}
	}
	return Artifact{
		SchemaVersion: ArtifactSchemaVersion,
		GeneratedAt:   generatedAt.UTC(),
		Documents:     docs,
	}
}

// WriteArtifact writes the artifact as indented JSON. The file is written to a
// temp location first and renamed into place.
func WriteArtifact(path string, artifact Artifact) error {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}
	return nil
}
