package jsonlindex

import (
	"context"
	"path/filepath"

	"github.com/docfetchd/docfetchd"
)

var _ docfetchd.IndexStore = (*Store)(nil)

// Store opens Writer/Reader instances rooted at <root>/index/<job_id>.jsonl,
// matching the persisted state layout.
type Store struct {
	root string
}

// NewStore creates a Store rooted at root (the service's data directory;
// the "index" subdirectory is appended automatically).
func NewStore(root string) *Store {
	return &Store{root: root}
}

func (s *Store) path(jobID string) string {
	return filepath.Join(s.root, "index", jobID+".jsonl")
}

// Writer implements docfetchd.IndexStore.
func (s *Store) Writer(ctx context.Context, jobID string) (docfetchd.IndexWriter, error) {
	return NewWriter(s.path(jobID))
}

// Reader implements docfetchd.IndexStore.
func (s *Store) Reader(ctx context.Context, jobID string) (docfetchd.IndexReader, error) {
	return NewReader(s.path(jobID))
}
