// Package crawl implements the bounded-concurrency recursive crawl
// engine: work queue, visited set, per-authority politeness, fetcher
// dispatch and fallback, link extraction and enqueue, and index
// emission.
package crawl

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/docfetchd/docfetchd"
	"github.com/docfetchd/docfetchd/httpfetch"
	"github.com/docfetchd/docfetchd/urlkey"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	defaultSemHTTP       = 10
	defaultSemBrowser    = 2
	defaultQueueCapacity = 10000
)

var _ docfetchd.Engine = (*Engine)(nil)

// Engine drives one crawl job from its start URL to completion.
type Engine struct {
	HTTPFetcher    docfetchd.Fetcher
	BrowserFetcher docfetchd.Fetcher
	Robots         RobotsChecker
	Index          docfetchd.IndexWriter
	ContentRoot    string
	Resolver       urlkey.Resolver
}

// RobotsChecker is the subset of robots.Policy the engine depends on.
type RobotsChecker interface {
	IsAllowed(ctx context.Context, rawURL string) bool
}

// Run implements docfetchd.Engine.
func (e *Engine) Run(ctx context.Context, req docfetchd.CrawlRequest) error {
	semHTTP := req.SemHTTP
	if semHTTP <= 0 {
		semHTTP = defaultSemHTTP
	}
	semBrowser := req.SemBrowser
	if semBrowser <= 0 {
		semBrowser = defaultSemBrowser
	}
	queueCap := req.QueueCapacity
	if queueCap <= 0 {
		queueCap = defaultQueueCapacity
	}

	startCanonical, err := urlkey.Canonicalize(req.StartURL)
	if err != nil {
		return e.emitFailure(ctx, req.StartURL, "", docfetchd.FetchFailedOther, err)
	}
	startAuthority, err := urlkey.Authority(startCanonical)
	if err != nil {
		return e.emitFailure(ctx, req.StartURL, startCanonical, docfetchd.FetchFailedOther, err)
	}

	visited := NewVisitedSet(bloomExpectedURLs)
	frontier := NewFrontier(queueCap)
	politeness := NewPoliteness(req.PolitenessDelay)

	httpSem := semaphore.NewWeighted(int64(semHTTP))
	browserSem := semaphore.NewWeighted(int64(semBrowser))

	workerCount := semHTTP
	if semBrowser > workerCount {
		workerCount = semBrowser
	}

	var anySuccess, startFailed bool
	var resultMu sync.Mutex
	var inflight sync.WaitGroup

	visited.InsertIfAbsent(startCanonical)
	if err := frontier.Push(ctx, docfetchd.QueueItem{
		CanonicalURL: startCanonical,
		OriginalURL:  req.StartURL,
		Depth:        0,
	}); err != nil {
		return err
	}
	inflight.Add(1)

	g, gctx := errgroup.WithContext(ctx)

	// Once nothing is in flight, the frontier will never receive another
	// push, so closing it is safe: Pop drains any buffered items first
	// and only then reports closed.
	go func() {
		inflight.Wait()
		frontier.Close()
	}()

	for i := 0; i < workerCount; i++ {
		g.Go(func() error {
			for {
				item, ok := frontier.Pop(gctx)
				if !ok {
					return nil
				}

				outcome := e.processItem(gctx, req, item, startAuthority, visited, frontier, politeness, httpSem, browserSem, &inflight)

				resultMu.Lock()
				if outcome.success {
					anySuccess = true
				}
				if item.CanonicalURL == startCanonical && !outcome.success {
					startFailed = true
				}
				resultMu.Unlock()

				inflight.Done()
			}
		})
	}

	waitErr := g.Wait()

	// All workers have returned. If they exited because ctx was cancelled
	// rather than because the frontier drained naturally, items may still
	// be sitting in the queue with their inflight credit never released;
	// release it now so the closer goroutine above can finish and close
	// the frontier instead of leaking blocked on inflight.Wait forever.
	if ctx.Err() != nil {
		for i := 0; i < frontier.Drain(); i++ {
			inflight.Done()
		}
	}

	closeErr := e.Index.Close()

	if waitErr != nil {
		return waitErr
	}
	if closeErr != nil {
		return closeErr
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if startFailed && !anySuccess {
		return docfetchd.Errorf(docfetchd.EINTERNAL, "start url %s failed", req.StartURL)
	}
	return nil
}

type itemOutcome struct {
	success bool
}

// processItem runs one URL through the full pipeline described in the
// crawl engine's design: SSRF guard, scope check, robots check, path
// mapping, politeness, fetch, fallback, index emission, and link
// enqueue.
func (e *Engine) processItem(
	ctx context.Context,
	req docfetchd.CrawlRequest,
	item docfetchd.QueueItem,
	startAuthority string,
	visited *VisitedSet,
	frontier *Frontier,
	politeness *Politeness,
	httpSem, browserSem *semaphore.Weighted,
	inflight *sync.WaitGroup,
) itemOutcome {
	if ctx.Err() != nil {
		// Job was cancelled before this item started; no row to emit.
		return itemOutcome{}
	}

	rec := &docfetchd.IndexRecord{
		OriginalURL:  item.OriginalURL,
		CanonicalURL: item.CanonicalURL,
	}

	if err := urlkey.GuardSSRF(ctx, e.Resolver, item.CanonicalURL); err != nil {
		if ctx.Err() != nil {
			return itemOutcome{}
		}
		rec.FetchStatus = docfetchd.FetchFailedSSRF
		rec.ErrorMessage = truncate(err.Error())
		e.append(ctx, rec)
		return itemOutcome{}
	}

	authority, err := urlkey.Authority(item.CanonicalURL)
	if err != nil || authority != startAuthority {
		return itemOutcome{} // off-authority: dropped silently, no row
	}

	if !e.Robots.IsAllowed(ctx, item.CanonicalURL) {
		rec.FetchStatus = docfetchd.FetchFailedRobots
		e.append(ctx, rec)
		return itemOutcome{}
	}

	// The target path must be known before the fetch runs (it is both the
	// skip-if-exists check below and the fetcher's write destination), but
	// the real Content-Type is only known after the response comes back.
	// Mapping with an empty Content-Type means every fetched file lands
	// with the ".bin" fallback extension rather than ".html"; search joins
	// on local_path rather than file extension, so this is cosmetic.
	targetPath, err := urlkey.Map(e.ContentRoot, item.CanonicalURL, "")
	if err != nil {
		rec.FetchStatus = docfetchd.FetchFailedOther
		rec.ErrorMessage = truncate(err.Error())
		e.append(ctx, rec)
		return itemOutcome{}
	}

	if !req.Force {
		if info, statErr := os.Stat(targetPath); statErr == nil && !info.IsDir() {
			rec.FetchStatus = docfetchd.FetchSkipped
			rec.LocalPath = targetPath
			e.append(ctx, rec)
			e.enqueueFromExisting(ctx, req, targetPath, item, startAuthority, visited, frontier, inflight)
			return itemOutcome{success: true}
		}
	}

	if err := politeness.Wait(ctx, authority); err != nil {
		if ctx.Err() != nil {
			return itemOutcome{}
		}
		rec.FetchStatus = docfetchd.FetchFailedOther
		rec.ErrorMessage = truncate(err.Error())
		e.append(ctx, rec)
		return itemOutcome{}
	}

	choice := req.InitialFetcher
	if choice == "" {
		choice = docfetchd.FetcherHTTP
	}

	result, fetchErr := e.dispatch(ctx, choice, req, item, targetPath, httpSem, browserSem)
	if fetchErr != nil {
		if ctx.Err() != nil {
			// Aborted mid-fetch: the fetchers only rename a completed
			// write into targetPath, so there is nothing on disk to
			// clean up, and emitting no row keeps a cancelled crawl's
			// index free of partial entries.
			return itemOutcome{}
		}
		rec.FetchStatus = docfetchd.FetchFailedOther
		rec.ErrorMessage = truncate(fetchErr.Error())
		e.append(ctx, rec)
		return itemOutcome{}
	}

	if result.Status == docfetchd.FetchSuccess && req.Fallback != docfetchd.FallbackNever && result.JSShellSuspect {
		upgraded, upErr := e.dispatch(ctx, docfetchd.FetcherBrowser, req, item, targetPath, httpSem, browserSem)
		if upErr == nil {
			result = upgraded
		}
	}

	rec.FetchStatus = result.Status
	if result.HTTPStatus != 0 {
		hs := result.HTTPStatus
		rec.HTTPStatus = &hs
	}
	rec.ErrorMessage = truncate(result.ErrorMessage)
	if result.Status == docfetchd.FetchSuccess {
		rec.LocalPath = targetPath
		rec.ContentHash = result.ContentHash
	}
	e.append(ctx, rec)

	if result.Status != docfetchd.FetchSuccess || item.Depth >= req.MaxDepth {
		return itemOutcome{success: result.Status == docfetchd.FetchSuccess}
	}

	e.enqueueLinks(ctx, result.DetectedLinks, item, startAuthority, visited, frontier, inflight)
	return itemOutcome{success: true}
}

func (e *Engine) dispatch(
	ctx context.Context,
	choice docfetchd.FetcherChoice,
	req docfetchd.CrawlRequest,
	item docfetchd.QueueItem,
	targetPath string,
	httpSem, browserSem *semaphore.Weighted,
) (*docfetchd.FetchResult, error) {
	if choice == docfetchd.FetcherBrowser {
		if err := browserSem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer browserSem.Release(1)
		timeout := req.TimeoutBrowser
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		return e.BrowserFetcher.Fetch(ctx, item.CanonicalURL, docfetchd.FetchOptions{
			TargetPath:  targetPath,
			Force:       req.Force,
			BaseDir:     e.ContentRoot,
			Timeout:     timeout,
			MaxBodySize: req.MaxBodySize,
		})
	}

	if err := httpSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer httpSem.Release(1)
	timeout := req.TimeoutHTTP
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return e.HTTPFetcher.Fetch(ctx, item.CanonicalURL, docfetchd.FetchOptions{
		TargetPath:  targetPath,
		Force:       req.Force,
		BaseDir:     e.ContentRoot,
		Timeout:     timeout,
		MaxBodySize: req.MaxBodySize,
	})
}

// enqueueLinks resolves, canonicalises, and scope/SSRF-checks every
// discovered link, inserting each newly seen canonical URL into the
// visited set before enqueueing it — insertion-then-enqueue is the
// invariant the visited set exists to uphold.
func (e *Engine) enqueueLinks(
	ctx context.Context,
	links []docfetchd.DiscoveredLink,
	item docfetchd.QueueItem,
	startAuthority string,
	visited *VisitedSet,
	frontier *Frontier,
	inflight *sync.WaitGroup,
) {
	for _, link := range links {
		absolute, err := urlkey.Resolve(item.CanonicalURL, link.RawURL)
		if err != nil {
			continue
		}
		canonical, err := urlkey.Canonicalize(absolute)
		if err != nil {
			continue
		}
		if urlkey.GuardSSRF(ctx, e.Resolver, canonical) != nil {
			continue
		}
		authority, err := urlkey.Authority(canonical)
		if err != nil || authority != startAuthority {
			continue
		}
		if !visited.InsertIfAbsent(canonical) {
			continue
		}

		inflight.Add(1)
		if err := frontier.Push(ctx, docfetchd.QueueItem{
			CanonicalURL: canonical,
			OriginalURL:  absolute,
			Depth:        item.Depth + 1,
		}); err != nil {
			inflight.Done()
		}
	}
}

// enqueueFromExisting extracts link candidates from a previously saved
// file, preserving depth accounting across a skip per §4.5d.
func (e *Engine) enqueueFromExisting(
	ctx context.Context,
	req docfetchd.CrawlRequest,
	targetPath string,
	item docfetchd.QueueItem,
	startAuthority string,
	visited *VisitedSet,
	frontier *Frontier,
	inflight *sync.WaitGroup,
) {
	if item.Depth >= req.MaxDepth {
		return
	}
	body, err := os.ReadFile(targetPath)
	if err != nil {
		return
	}
	links, err := extractLinksFromBody(body)
	if err != nil {
		return
	}
	e.enqueueLinks(ctx, links, item, startAuthority, visited, frontier, inflight)
}

func (e *Engine) append(ctx context.Context, rec *docfetchd.IndexRecord) {
	_ = e.Index.Append(ctx, rec)
}

func (e *Engine) emitFailure(ctx context.Context, originalURL, canonicalURL string, status docfetchd.FetchStatus, err error) error {
	e.append(ctx, &docfetchd.IndexRecord{
		OriginalURL:  originalURL,
		CanonicalURL: canonicalURL,
		FetchStatus:  status,
		ErrorMessage: truncate(err.Error()),
	})
	return err
}

func truncate(s string) string {
	const max = 2000
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// extractLinksFromBody re-derives link candidates from a file already
// saved to the content root on a previous run, so a skipped fetch can
// still continue the crawl past it.
func extractLinksFromBody(body []byte) ([]docfetchd.DiscoveredLink, error) {
	return httpfetch.ExtractLinks(string(body))
}
