package docfetchd

import (
	"context"
	"time"
)

// FetchOptions parametrises a single fetch attempt. BaseDir is the content
// root a fetcher must confine writes to: a TargetPath resolving outside it
// is an error raised before any write occurs.
type FetchOptions struct {
	TargetPath  string
	Force       bool
	BaseDir     string
	Timeout     time.Duration
	MaxBodySize int64
}

// DiscoveredLink is a link candidate pulled from a fetched page, not yet
// resolved against the page's base URL or canonicalised.
type DiscoveredLink struct {
	RawURL string
}

// FetchResult is the outcome of one fetch attempt, shared by every
// Fetcher implementation so the crawl engine can treat them uniformly.
type FetchResult struct {
	Status         FetchStatus
	HTTPStatus     int // 0 if not applicable
	ContentHash    string
	DetectedLinks  []DiscoveredLink
	ErrorMessage   string
	JSShellSuspect bool // body looked like an unrendered client-side shell
}

// Fetcher retrieves a single URL's content and, on success, writes it to
// disk at opts.TargetPath via atomic rename. Implementations never fetch
// outside opts.BaseDir and never exceed opts.MaxBodySize.
type Fetcher interface {
	Fetch(ctx context.Context, canonicalURL string, opts FetchOptions) (*FetchResult, error)
}
