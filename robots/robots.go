// Package robots implements per-authority robots.txt fetch, parse, cache,
// and allow/deny decisions for a single crawl job.
package robots

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

const (
	fetchTimeout   = 10 * time.Second
	maxBodyBytes   = 1 << 20
	backoffWindow  = 60 * time.Second
)

type cacheEntry struct {
	data       *robotstxt.RobotsData // nil means allow-all
	resolved   bool
	lastFailAt time.Time
}

// Policy fetches, parses, and caches robots.txt per authority for the
// duration of one job. A zero Policy is not usable; construct with New.
type Policy struct {
	client    *http.Client
	userAgent string

	mu    sync.Mutex
	cache map[string]*cacheEntry
}

// New creates a Policy that identifies itself with userAgent when
// fetching robots.txt.
func New(userAgent string) *Policy {
	return &Policy{
		client:    &http.Client{Timeout: fetchTimeout},
		userAgent: userAgent,
		cache:     make(map[string]*cacheEntry),
	}
}

// IsAllowed reports whether rawURL may be fetched under the cached rules
// for its authority, fetching and parsing robots.txt on first use.
//
// A 4xx response other than 429 is treated as allow-all. A network error
// or 5xx response is also treated as allow-all, but the failure is
// remembered for backoffWindow so repeated fetches are not retried more
// than once per window.
func (p *Policy) IsAllowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}

	entry := p.entryFor(ctx, u)
	if entry.data == nil {
		return true
	}
	group := entry.data.FindGroup(p.userAgent)
	if group == nil {
		return true
	}
	return group.Test(u.Path)
}

func (p *Policy) entryFor(ctx context.Context, u *url.URL) *cacheEntry {
	authority := u.Host

	p.mu.Lock()
	entry, ok := p.cache[authority]
	if ok && (entry.resolved || time.Since(entry.lastFailAt) < backoffWindow) {
		p.mu.Unlock()
		return entry
	}
	if !ok {
		entry = &cacheEntry{}
		p.cache[authority] = entry
	}
	p.mu.Unlock()

	data, failed := p.fetch(ctx, u)

	p.mu.Lock()
	defer p.mu.Unlock()
	if failed {
		entry.lastFailAt = time.Now()
	} else {
		entry.data = data
		entry.resolved = true
	}
	return entry
}

// fetch retrieves and parses robots.txt for u's authority. The second
// return value reports whether the fetch should be treated as a
// retryable failure (network error or 5xx) as opposed to a definitive
// allow-all (4xx other than 429, or a successfully parsed document).
func (p *Policy) fetch(ctx context.Context, u *url.URL) (data *robotstxt.RobotsData, failed bool) {
	robotsURL := &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/robots.txt"}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL.String(), nil)
	if err != nil {
		return nil, true
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, true
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, true
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, true
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, false // allow-all, not retryable
	case resp.StatusCode >= 500:
		return nil, true
	}

	parsed, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, true
	}
	return parsed, false
}
