package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/stellarplus/docsearch/internal/indexing"
)

const (
	DefaultConfigFile = "docsearch.yml"
	EnvPrefix         = "DOCSEARCH_"

	dataDirName = ".docsearch"
)

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver:    DriverFile,
			KeyPrefix: "docsearch:",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9464",
		},
		Indexer: IndexerConfig{
			BaseHref: indexing.DefaultBaseHref,
		},
	}
}

// ResolveDataDir returns the configured data directory, or picks one:
// ~/.docsearch when it exists or can be created, then a data directory next to
// the executable, then ./data. The returned directory exists.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		if err := os.MkdirAll(c.DataDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create data directory %s: %w", c.DataDir, err)
		}
		return c.DataDir, nil
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		userDataDir := filepath.Join(homeDir, dataDirName)
		if info, err := os.Stat(userDataDir); err == nil && info.IsDir() {
			return userDataDir, nil
		}
		if err := os.MkdirAll(userDataDir, 0755); err == nil {
			return userDataDir, nil
		}
	}

	if execPath, err := os.Executable(); err == nil {
		relativeDataDir := filepath.Join(filepath.Dir(execPath), "..", "data")
		if info, err := os.Stat(relativeDataDir); err == nil && info.IsDir() {
			return filepath.Abs(relativeDataDir)
		}
	}

	fallback := filepath.Join(".", "data")
	if err := os.MkdirAll(fallback, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory %s: %w", fallback, err)
	}
	return fallback, nil
}
