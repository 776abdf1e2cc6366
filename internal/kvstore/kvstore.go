// Package kvstore persists small JSON blobs by key. The analytics tracker and
// the recent-search history store their state through it.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/stellarplus/docsearch/internal/config"
)

// ErrNotFound is returned by Get when the key has no value
var ErrNotFound = errors.New("key not found")

// Store is a string-keyed byte store
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open builds the backend named by cfg.Driver. dataDir is used when the
// file or sqlite backends have no explicit location.
func Open(ctx context.Context, cfg config.StorageConfig, dataDir string, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dir := cfg.Dir
	if dir == "" {
		dir = dataDir
	}

	switch cfg.Driver {
	case config.DriverFile, "":
		return OpenFile(dir, logger)
	case config.DriverMemory:
		return NewMemory(), nil
	case config.DriverSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = filepath.Join(dir, "docsearch.db")
		}
		return OpenSQLite(ctx, dsn)
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.DSN)
	case config.DriverRedis:
		return OpenRedis(ctx, RedisOptions{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.KeyPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
