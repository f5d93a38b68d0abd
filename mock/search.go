package mock

import (
	"context"

	"github.com/docfetchd/docfetchd"
)

var _ docfetchd.Scanner = (*Scanner)(nil)

// Scanner is a mock implementation of docfetchd.Scanner.
type Scanner struct {
	ScanFn func(ctx context.Context, paths []string, keywords []string) ([]string, error)
}

func (s *Scanner) Scan(ctx context.Context, paths []string, keywords []string) ([]string, error) {
	return s.ScanFn(ctx, paths, keywords)
}

var _ docfetchd.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docfetchd.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, path string, selector string, keywords []string) ([]string, error)
}

func (e *Extractor) Extract(ctx context.Context, path string, selector string, keywords []string) ([]string, error) {
	return e.ExtractFn(ctx, path, selector, keywords)
}

var _ docfetchd.SearchCoordinator = (*SearchCoordinator)(nil)

// SearchCoordinator is a mock implementation of docfetchd.SearchCoordinator.
type SearchCoordinator struct {
	SearchFn func(ctx context.Context, req docfetchd.SearchRequest) ([]docfetchd.SearchResult, error)
}

func (c *SearchCoordinator) Search(ctx context.Context, req docfetchd.SearchRequest) ([]docfetchd.SearchResult, error) {
	return c.SearchFn(ctx, req)
}
