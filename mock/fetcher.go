package mock

import (
	"context"

	"github.com/docfetchd/docfetchd"
)

var _ docfetchd.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of docfetchd.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, canonicalURL string, opts docfetchd.FetchOptions) (*docfetchd.FetchResult, error)
}

func (f *Fetcher) Fetch(ctx context.Context, canonicalURL string, opts docfetchd.FetchOptions) (*docfetchd.FetchResult, error) {
	return f.FetchFn(ctx, canonicalURL, opts)
}
