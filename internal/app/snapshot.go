package app

import (
	"sync"

	"github.com/stellarplus/docsearch/internal/corpus"
	"github.com/stellarplus/docsearch/internal/fulltext"
	"github.com/stellarplus/docsearch/internal/search"
)

// Snapshot is one immutable generation of the searchable corpus
type Snapshot struct {
	Corpus   *corpus.Corpus
	Engine   *search.Engine
	FullText fulltext.Index

	// readers counts in-flight users of this snapshot. Once retired is set
	// no reader can join, so Wait never races with Add.
	mu      sync.Mutex
	retired bool
	readers sync.WaitGroup
}

func newSnapshot(c *corpus.Corpus, idx fulltext.Index) *Snapshot {
	return &Snapshot{
		Corpus:   c,
		Engine:   search.NewEngine(c),
		FullText: idx,
	}
}

// enter registers a reader, reporting false once the snapshot is retired
func (s *Snapshot) enter() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.retired {
		return false
	}
	s.readers.Add(1)
	return true
}

// retire stops new readers and waits for the current ones to release
func (s *Snapshot) retire() {
	s.mu.Lock()
	s.retired = true
	s.mu.Unlock()
	s.readers.Wait()
}
