package jobmanager

import (
	"context"
	"time"

	"github.com/docfetchd/docfetchd"
)

// RepoAcquirer clones a source repository's documentation subtree into a
// job's content directory and emits index rows for the files it copies.
type RepoAcquirer interface {
	Acquire(ctx context.Context, jobID, repoURL, docSubpath string, force bool) error
}

// EngineFactory builds the crawl engine for one job. A fresh Engine is
// needed per job because its Index and ContentRoot are scoped to a
// single job id.
type EngineFactory func(jobID string) (docfetchd.Engine, error)

// Dispatcher is the default Runner: it routes a job request to the crawl
// engine for web/browser-render jobs or to a RepoAcquirer for repo jobs.
type Dispatcher struct {
	NewEngine EngineFactory
	Acquirer  RepoAcquirer

	DefaultDepth          int
	DefaultTimeoutHTTP    time.Duration
	DefaultTimeoutBrowser time.Duration
	DefaultMaxBodySize    int64
}

var _ Runner = (*Dispatcher)(nil)

// Run implements Runner.
func (d *Dispatcher) Run(ctx context.Context, req docfetchd.JobRequest) error {
	switch req.Kind {
	case docfetchd.JobKindRepo:
		return d.Acquirer.Acquire(ctx, req.ID, req.RepoURL, req.DocSubpath, req.Force)
	case docfetchd.JobKindBrowser:
		return d.runCrawl(ctx, req, docfetchd.FetcherBrowser)
	default:
		return d.runCrawl(ctx, req, docfetchd.FetcherHTTP)
	}
}

func (d *Dispatcher) runCrawl(ctx context.Context, req docfetchd.JobRequest, initial docfetchd.FetcherChoice) error {
	engine, err := d.NewEngine(req.ID)
	if err != nil {
		return err
	}
	return engine.Run(ctx, d.crawlRequest(req, initial))
}

func (d *Dispatcher) crawlRequest(req docfetchd.JobRequest, initial docfetchd.FetcherChoice) docfetchd.CrawlRequest {
	depth := req.Depth
	if depth < 0 {
		depth = d.DefaultDepth
	}
	timeoutHTTP := req.TimeoutHTTP
	if timeoutHTTP <= 0 {
		timeoutHTTP = d.DefaultTimeoutHTTP
	}
	timeoutBrowser := req.TimeoutBrowser
	if timeoutBrowser <= 0 {
		timeoutBrowser = d.DefaultTimeoutBrowser
	}
	maxBodySize := req.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = d.DefaultMaxBodySize
	}

	return docfetchd.CrawlRequest{
		JobID:          req.ID,
		StartURL:       req.URL,
		MaxDepth:       depth,
		Force:          req.Force,
		TimeoutHTTP:    timeoutHTTP,
		TimeoutBrowser: timeoutBrowser,
		MaxBodySize:    maxBodySize,
		InitialFetcher: initial,
		Fallback:       docfetchd.FallbackOnJSShellHeuristic,
	}
}
