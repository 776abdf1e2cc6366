package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce groups the burst of events an editor save produces
const debounce = 300 * time.Millisecond

// watch rebuilds the index on every change below docsDir until ctx ends.
func (ix *indexer) watch(ctx context.Context, docsDir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := ix.addTree(watcher, docsDir); err != nil {
		return err
	}
	ix.logger.Info("watching for changes", "dir", docsDir)

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ix.ownsPath(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := ix.addTree(watcher, event.Name); err != nil {
						ix.logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
					}
				}
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			ix.logger.Warn("watcher error", "error", err)
		case <-timer.C:
			result, err := ix.build(ctx, docsDir)
			if err != nil {
				ix.logger.Error("rebuild failed", "error", err)
				continue
			}
			printSummary(os.Stderr, result, ix.output)
		}
	}
}

// ownsPath reports whether name is something build writes, so that an
// output placed inside the docs tree does not trigger another rebuild.
func (ix *indexer) ownsPath(name string) bool {
	p := absPath(name)
	if ix.output != "" {
		out := absPath(ix.output)
		if p == out || p == out+".tmp" {
			return true
		}
	}
	if ix.bleveIndex != "" {
		idx := absPath(ix.bleveIndex)
		if p == idx+".version" || within(p, idx) || within(p, idx+".tmp") {
			return true
		}
	}
	return false
}

func absPath(name string) string {
	if abs, err := filepath.Abs(name); err == nil {
		return abs
	}
	return filepath.Clean(name)
}

// within reports whether p is root or below it
func within(p, root string) bool {
	return p == root || strings.HasPrefix(p, root+string(filepath.Separator))
}

// addTree watches dir and every directory below it; fsnotify is not recursive
func (ix *indexer) addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if ix.ownsPath(p) {
			return filepath.SkipDir
		}
		switch d.Name() {
		case "node_modules", ".git", ".next":
			return filepath.SkipDir
		}
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
}
