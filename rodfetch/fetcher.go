// Package rodfetch implements docfetchd.Fetcher by driving a headless
// Chrome instance with go-rod, for pages that require JavaScript
// rendering. It is the browser-render half of the two-fetcher contract;
// httpfetch is the lightweight half.
package rodfetch

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"time"

	"github.com/docfetchd/docfetchd"
	"github.com/docfetchd/docfetchd/httpfetch"
	"github.com/go-rod/rod/lib/proto"
)

var _ docfetchd.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves a URL by navigating a recycled headless browser and
// serialising the rendered DOM.
type Fetcher struct {
	manager *BrowserManager
}

// New wraps an already-running BrowserManager. The manager's lifecycle
// (launch, recycling, Close) is owned by the caller.
func New(manager *BrowserManager) *Fetcher {
	return &Fetcher{manager: manager}
}

// Fetch implements docfetchd.Fetcher.
func (f *Fetcher) Fetch(ctx context.Context, canonicalURL string, opts docfetchd.FetchOptions) (*docfetchd.FetchResult, error) {
	if err := httpfetch.ConfineToBase(opts.BaseDir, opts.TargetPath); err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultNavigationTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	browser := f.manager.Browser()
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return &docfetchd.FetchResult{
			Status:       docfetchd.FetchFailedRequest,
			ErrorMessage: truncateMsg(err.Error()),
		}, nil
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := page.Navigate(canonicalURL); err != nil {
		return &docfetchd.FetchResult{
			Status:       docfetchd.FetchFailedRequest,
			ErrorMessage: truncateMsg(err.Error()),
		}, nil
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return &docfetchd.FetchResult{
			Status:       docfetchd.FetchFailedRequest,
			ErrorMessage: truncateMsg(err.Error()),
		}, nil
	}
	f.manager.IncrementPageCount()

	el, err := page.Element("html")
	if err != nil {
		return &docfetchd.FetchResult{
			Status:       docfetchd.FetchFailedOther,
			ErrorMessage: truncateMsg(err.Error()),
		}, nil
	}
	html, err := el.HTML()
	if err != nil {
		return &docfetchd.FetchResult{
			Status:       docfetchd.FetchFailedOther,
			ErrorMessage: truncateMsg(err.Error()),
		}, nil
	}

	body := []byte(html)
	if int64(len(body)) > opts.MaxBodySize {
		return &docfetchd.FetchResult{Status: docfetchd.FetchFailedTooBig}, nil
	}

	if httpfetch.DetectPaywall(html) {
		return &docfetchd.FetchResult{Status: docfetchd.FetchFailedPaywall}, nil
	}

	links, err := httpfetch.ExtractLinks(html)
	if err != nil {
		links = nil
	}

	sum := md5.Sum(body)
	hash := hex.EncodeToString(sum[:])

	if err := httpfetch.AtomicWrite(opts.TargetPath, body, 0o644); err != nil {
		return nil, docfetchd.Wrap(err, docfetchd.EINTERNAL, "write %s", opts.TargetPath)
	}

	return &docfetchd.FetchResult{
		Status:        docfetchd.FetchSuccess,
		ContentHash:   hash,
		DetectedLinks: links,
	}, nil
}

func truncateMsg(s string) string {
	const max = 2000
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// DefaultNavigationTimeout is the default navigation timeout applied when
// the crawl engine does not override opts.Timeout for browser fetches.
const DefaultNavigationTimeout = 60 * time.Second
