package docfetchd

import (
	"context"
	"time"
)

// FetcherChoice selects which fetcher variant an engine starts with.
type FetcherChoice string

const (
	FetcherHTTP    FetcherChoice = "http"
	FetcherBrowser FetcherChoice = "browser"
)

// FallbackPolicy controls when the engine retries an HTTP result with the
// browser-render fetcher.
type FallbackPolicy string

const (
	FallbackNever             FallbackPolicy = "never"
	FallbackOnJSShellHeuristic FallbackPolicy = "on-js-shell-heuristic"
	FallbackAlways            FallbackPolicy = "always"
)

// CrawlRequest configures one run of the crawl engine.
type CrawlRequest struct {
	JobID           string
	StartURL        string
	MaxDepth        int
	Force           bool
	TimeoutHTTP     time.Duration
	TimeoutBrowser  time.Duration
	MaxBodySize     int64
	InitialFetcher  FetcherChoice
	Fallback        FallbackPolicy
	PolitenessDelay time.Duration
	SemHTTP         int
	SemBrowser      int
	QueueCapacity   int
	UserAgent       string
}

// QueueItem is one unit of crawl work: a canonical URL at a given depth
// from the start URL.
type QueueItem struct {
	CanonicalURL string
	OriginalURL  string
	Depth        int
}

// VisitedSet tracks canonical URLs already admitted to a job's work queue.
// InsertIfAbsent must be atomic: the visited-set invariant requires that
// insertion happens before enqueue, never the reverse.
type VisitedSet interface {
	// InsertIfAbsent returns true if canonicalURL was newly inserted,
	// false if it was already present.
	InsertIfAbsent(canonicalURL string) bool
}

// Frontier is the bounded work queue a crawl engine drains. Push blocks
// when the queue is at capacity, providing the back-pressure §5 requires.
type Frontier interface {
	Push(ctx context.Context, item QueueItem) error
	// Pop blocks until an item is available or the context is done.
	// ok is false only when the frontier has been closed and drained.
	Pop(ctx context.Context) (item QueueItem, ok bool)
	Close()
}

// Engine drives one crawl job to completion, writing index records and
// content files as it goes. Run blocks until the queue is drained or ctx
// is cancelled.
type Engine interface {
	Run(ctx context.Context, req CrawlRequest) error
}
