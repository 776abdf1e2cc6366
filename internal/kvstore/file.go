package kvstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

const lockFileName = "docsearch.lock"

var validFileKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// File stores each key as <dir>/<key>.json. Writes take an inter-process
// lock on the directory for their duration, so several processes can share
// one data dir; reads are lock-free since writes are atomic renames.
type File struct {
	dir  string
	lock *pidLock

	mu sync.Mutex
}

func OpenFile(dir string, logger *slog.Logger) (*File, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir == "" {
		return nil, fmt.Errorf("file store requires a directory")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &File{dir: dir, lock: newPIDLock(filepath.Join(dir, lockFileName), logger)}, nil
}

// locked runs fn while holding both the in-process and the directory lock
func (f *File) locked(fn func() error) (err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.lock.acquire(); err != nil {
		return err
	}
	defer func() {
		if rerr := f.lock.release(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	return fn()
}

func (f *File) path(key string) (string, error) {
	if !validFileKey.MatchString(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Set writes to a temp file and renames it into place
func (f *File) Set(ctx context.Context, key string, value []byte) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}

	return f.locked(func() error {
		tmp := path + ".tmp"
		if err := os.WriteFile(tmp, value, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
		if err := os.Rename(tmp, path); err != nil {
			os.Remove(tmp)
			return fmt.Errorf("failed to replace %s: %w", key, err)
		}
		return nil
	})
}

func (f *File) Delete(ctx context.Context, key string) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}

	return f.locked(func() error {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
		return nil
	})
}

// Close is a no-op: the directory lock is only held during writes
func (f *File) Close() error {
	return nil
}
