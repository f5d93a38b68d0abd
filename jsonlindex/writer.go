// Package jsonlindex implements docfetchd.IndexWriter and IndexReader as
// an append-only, line-delimited JSON file per job: one record per fetch
// attempt, fsynced once at job end rather than per record.
package jsonlindex

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/docfetchd/docfetchd"
)

var _ docfetchd.IndexWriter = (*Writer)(nil)

// Writer appends IndexRecords to a single job's index file. Concurrent
// Append calls are serialised by mu so lines are never interleaved.
type Writer struct {
	mu   sync.Mutex
	file *os.File
	w    *bufio.Writer
}

// NewWriter creates (or truncates) the index file at path, creating its
// parent directory if necessary.
func NewWriter(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, docfetchd.Wrap(err, docfetchd.EINTERNAL, "create index directory")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, docfetchd.Wrap(err, docfetchd.EINTERNAL, "open index file")
	}
	return &Writer{file: f, w: bufio.NewWriter(f)}, nil
}

// Append writes one index record as a line of JSON. The line is flushed
// to the OS buffer immediately but not fsynced; Close performs the
// single fsync for the file.
func (w *Writer) Append(ctx context.Context, rec *docfetchd.IndexRecord) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return docfetchd.Wrap(err, docfetchd.EINTERNAL, "marshal index record")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.w.Write(line); err != nil {
		return docfetchd.Wrap(err, docfetchd.EINTERNAL, "write index record")
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return docfetchd.Wrap(err, docfetchd.EINTERNAL, "write index record")
	}
	return w.w.Flush()
}

// Close flushes and fsyncs the index file, then closes it.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.w.Flush(); err != nil {
		w.file.Close()
		return docfetchd.Wrap(err, docfetchd.EINTERNAL, "flush index")
	}
	if err := w.file.Sync(); err != nil {
		w.file.Close()
		return docfetchd.Wrap(err, docfetchd.EINTERNAL, "fsync index")
	}
	return w.file.Close()
}
