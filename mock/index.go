package mock

import (
	"context"

	"github.com/docfetchd/docfetchd"
)

var _ docfetchd.IndexWriter = (*IndexWriter)(nil)

// IndexWriter is a mock implementation of docfetchd.IndexWriter.
type IndexWriter struct {
	AppendFn func(ctx context.Context, rec *docfetchd.IndexRecord) error
	CloseFn  func() error
}

func (w *IndexWriter) Append(ctx context.Context, rec *docfetchd.IndexRecord) error {
	return w.AppendFn(ctx, rec)
}

func (w *IndexWriter) Close() error {
	return w.CloseFn()
}

var _ docfetchd.IndexReader = (*IndexReader)(nil)

// IndexReader is a mock implementation of docfetchd.IndexReader.
type IndexReader struct {
	EachFn  func(ctx context.Context, fn func(*docfetchd.IndexRecord) error) error
	CloseFn func() error
}

func (r *IndexReader) Each(ctx context.Context, fn func(*docfetchd.IndexRecord) error) error {
	return r.EachFn(ctx, fn)
}

func (r *IndexReader) Close() error {
	return r.CloseFn()
}

var _ docfetchd.IndexStore = (*IndexStore)(nil)

// IndexStore is a mock implementation of docfetchd.IndexStore.
type IndexStore struct {
	WriterFn func(ctx context.Context, jobID string) (docfetchd.IndexWriter, error)
	ReaderFn func(ctx context.Context, jobID string) (docfetchd.IndexReader, error)
}

func (s *IndexStore) Writer(ctx context.Context, jobID string) (docfetchd.IndexWriter, error) {
	return s.WriterFn(ctx, jobID)
}

func (s *IndexStore) Reader(ctx context.Context, jobID string) (docfetchd.IndexReader, error) {
	return s.ReaderFn(ctx, jobID)
}
