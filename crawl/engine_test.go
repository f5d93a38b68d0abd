package crawl_test

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/docfetchd/docfetchd"
	"github.com/docfetchd/docfetchd/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	mu      sync.Mutex
	calls   int
	results map[string]*docfetchd.FetchResult
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{results: make(map[string]*docfetchd.FetchResult)}
}

func (s *stubFetcher) set(canonicalURL string, result *docfetchd.FetchResult) {
	s.results[canonicalURL] = result
}

func (s *stubFetcher) Fetch(ctx context.Context, canonicalURL string, opts docfetchd.FetchOptions) (*docfetchd.FetchResult, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if r, ok := s.results[canonicalURL]; ok {
		return r, nil
	}
	return &docfetchd.FetchResult{Status: docfetchd.FetchFailedOther, ErrorMessage: "no stub result for " + canonicalURL}, nil
}

func (s *stubFetcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type memoryIndex struct {
	mu      sync.Mutex
	records []*docfetchd.IndexRecord
	closed  bool
}

func (m *memoryIndex) Append(ctx context.Context, rec *docfetchd.IndexRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.records = append(m.records, &cp)
	return nil
}

func (m *memoryIndex) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *memoryIndex) snapshot() []*docfetchd.IndexRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*docfetchd.IndexRecord, len(m.records))
	copy(out, m.records)
	return out
}

type allowAllRobots struct{}

func (allowAllRobots) IsAllowed(ctx context.Context, rawURL string) bool { return true }

type denyAllRobots struct{}

func (denyAllRobots) IsAllowed(ctx context.Context, rawURL string) bool { return false }

// publicResolver resolves every non-literal host to a single public IP,
// so engine tests can exercise the SSRF guard's resolver path without
// depending on real DNS.
type publicResolver struct{}

func (publicResolver) LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error) {
	return []net.IPAddr{{IP: net.ParseIP("93.184.216.34")}}, nil
}

func newTestEngine(t *testing.T, fetcher docfetchd.Fetcher, robots crawl.RobotsChecker) (*crawl.Engine, *memoryIndex) {
	t.Helper()
	idx := &memoryIndex{}
	eng := &crawl.Engine{
		HTTPFetcher:    fetcher,
		BrowserFetcher: fetcher,
		Robots:         robots,
		Index:          idx,
		ContentRoot:    t.TempDir(),
		Resolver:       publicResolver{},
	}
	return eng, idx
}

// B1: depth 0 with a page containing 100 same-authority links produces
// exactly one index row and fetches nothing beyond the start URL.
func TestEngine_DepthZero_NoFollow(t *testing.T) {
	t.Parallel()

	links := make([]docfetchd.DiscoveredLink, 0, 100)
	for i := 0; i < 100; i++ {
		links = append(links, docfetchd.DiscoveredLink{RawURL: fmt.Sprintf("/page%d", i)})
	}

	fetcher := newStubFetcher()
	fetcher.set("http://example.test/", &docfetchd.FetchResult{
		Status:        docfetchd.FetchSuccess,
		ContentHash:   "deadbeef",
		DetectedLinks: links,
	})

	eng, idx := newTestEngine(t, fetcher, allowAllRobots{})

	err := eng.Run(context.Background(), docfetchd.CrawlRequest{
		StartURL: "http://example.test/",
		MaxDepth: 0,
	})
	require.NoError(t, err)

	records := idx.snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, docfetchd.FetchSuccess, records[0].FetchStatus)
	assert.Equal(t, 1, fetcher.callCount())
}

// B2: depth 1 with the same page and force=false yields 101 rows, all
// with unique canonical URLs.
func TestEngine_DepthOne_FollowsAllLinks(t *testing.T) {
	t.Parallel()

	const n = 100
	links := make([]docfetchd.DiscoveredLink, 0, n)
	for i := 0; i < n; i++ {
		links = append(links, docfetchd.DiscoveredLink{RawURL: fmt.Sprintf("/page%d", i)})
	}

	fetcher := newStubFetcher()
	fetcher.set("http://example.test/", &docfetchd.FetchResult{
		Status:        docfetchd.FetchSuccess,
		ContentHash:   "root-hash",
		DetectedLinks: links,
	})
	for i := 0; i < n; i++ {
		fetcher.set(fmt.Sprintf("http://example.test/page%d", i), &docfetchd.FetchResult{
			Status:      docfetchd.FetchSuccess,
			ContentHash: fmt.Sprintf("hash-%d", i),
		})
	}

	eng, idx := newTestEngine(t, fetcher, allowAllRobots{})

	err := eng.Run(context.Background(), docfetchd.CrawlRequest{
		StartURL: "http://example.test/",
		MaxDepth: 1,
	})
	require.NoError(t, err)

	records := idx.snapshot()
	require.Len(t, records, n+1)

	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		_, dup := seen[r.CanonicalURL]
		assert.False(t, dup, "duplicate canonical url %s", r.CanonicalURL)
		seen[r.CanonicalURL] = struct{}{}
	}
}

// B4: a body over the configured max size is reported failed_toobig and
// never written to disk; the engine surfaces the fetcher's verdict as-is.
func TestEngine_TooBigResult_RecordedAsFailedNoFile(t *testing.T) {
	t.Parallel()

	fetcher := newStubFetcher()
	fetcher.set("http://example.test/", &docfetchd.FetchResult{
		Status:       docfetchd.FetchFailedTooBig,
		ErrorMessage: "body exceeds max size",
	})

	eng, idx := newTestEngine(t, fetcher, allowAllRobots{})

	err := eng.Run(context.Background(), docfetchd.CrawlRequest{
		StartURL:    "http://example.test/",
		MaxDepth:    0,
		MaxBodySize: 1024,
	})
	require.Error(t, err)

	records := idx.snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, docfetchd.FetchFailedTooBig, records[0].FetchStatus)
	assert.Empty(t, records[0].LocalPath)
}

// B5: a start URL resolving to a loopback literal is rejected before any
// fetch is attempted.
func TestEngine_SSRFLoopback_NeverFetches(t *testing.T) {
	t.Parallel()

	fetcher := newStubFetcher()
	eng, idx := newTestEngine(t, fetcher, allowAllRobots{})

	err := eng.Run(context.Background(), docfetchd.CrawlRequest{
		StartURL: "http://127.0.0.1/admin",
		MaxDepth: 2,
	})
	require.Error(t, err)
	assert.Equal(t, 0, fetcher.callCount())

	records := idx.snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, docfetchd.FetchFailedSSRF, records[0].FetchStatus)
}

// S2: an off-authority link discovered on the start page is never
// enqueued, even though the same-authority link is.
func TestEngine_OffAuthorityLinksAreDropped(t *testing.T) {
	t.Parallel()

	fetcher := newStubFetcher()
	fetcher.set("http://example.test/a", &docfetchd.FetchResult{
		Status: docfetchd.FetchSuccess,
		DetectedLinks: []docfetchd.DiscoveredLink{
			{RawURL: "/b"},
			{RawURL: "http://other.test/c"},
		},
	})
	fetcher.set("http://example.test/b", &docfetchd.FetchResult{
		Status: docfetchd.FetchSuccess,
	})

	eng, idx := newTestEngine(t, fetcher, allowAllRobots{})

	err := eng.Run(context.Background(), docfetchd.CrawlRequest{
		StartURL: "http://example.test/a",
		MaxDepth: 1,
	})
	require.NoError(t, err)

	records := idx.snapshot()
	require.Len(t, records, 2)
	for _, r := range records {
		assert.NotContains(t, r.CanonicalURL, "other.test")
	}
}

// S3: a start URL forbidden by robots produces one failed_robots row and
// no successful fetch.
func TestEngine_RobotsDisallowed_FailsJobNoFetch(t *testing.T) {
	t.Parallel()

	fetcher := newStubFetcher()
	eng, idx := newTestEngine(t, fetcher, denyAllRobots{})

	err := eng.Run(context.Background(), docfetchd.CrawlRequest{
		StartURL: "http://example.test/",
		MaxDepth: 0,
	})
	require.Error(t, err)

	records := idx.snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, docfetchd.FetchFailedRobots, records[0].FetchStatus)
	assert.Equal(t, 0, fetcher.callCount())
}

// S4: two jobs against distinct engine instances never share visited-set
// or index state.
func TestEngine_ConcurrentJobsDoNotCrossWrite(t *testing.T) {
	t.Parallel()

	run := func() []*docfetchd.IndexRecord {
		fetcher := newStubFetcher()
		fetcher.set("http://example.test/", &docfetchd.FetchResult{Status: docfetchd.FetchSuccess})
		eng, idx := newTestEngine(t, fetcher, allowAllRobots{})
		err := eng.Run(context.Background(), docfetchd.CrawlRequest{
			StartURL: "http://example.test/",
			MaxDepth: 0,
		})
		require.NoError(t, err)
		return idx.snapshot()
	}

	var wg sync.WaitGroup
	results := make([][]*docfetchd.IndexRecord, 2)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = run()
		}()
	}
	wg.Wait()

	for _, r := range results {
		require.Len(t, r, 1)
	}
}

// S6: cancellation mid-crawl surfaces as an error and the index is left
// in a well-formed state (every appended record is complete).
func TestEngine_CancellationSurfacesAsError(t *testing.T) {
	t.Parallel()

	fetcher := newStubFetcher()
	links := make([]docfetchd.DiscoveredLink, 0, 50)
	for i := 0; i < 50; i++ {
		links = append(links, docfetchd.DiscoveredLink{RawURL: fmt.Sprintf("/page%d", i)})
	}
	fetcher.set("http://example.test/", &docfetchd.FetchResult{
		Status:        docfetchd.FetchSuccess,
		DetectedLinks: links,
	})

	eng, _ := newTestEngine(t, fetcher, allowAllRobots{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	err := eng.Run(ctx, docfetchd.CrawlRequest{
		StartURL:        "http://example.test/",
		MaxDepth:        5,
		PolitenessDelay: time.Second,
	})
	assert.Error(t, err)
}

// S6: items never started because the job was cancelled leave no row in
// the index at all, rather than a failed_other entry.
func TestEngine_Cancellation_NoPartialRowsForUnstartedItems(t *testing.T) {
	t.Parallel()

	fetcher := newStubFetcher()
	links := make([]docfetchd.DiscoveredLink, 0, 50)
	for i := 0; i < 50; i++ {
		links = append(links, docfetchd.DiscoveredLink{RawURL: fmt.Sprintf("/page%d", i)})
	}
	fetcher.set("http://example.test/", &docfetchd.FetchResult{
		Status:        docfetchd.FetchSuccess,
		DetectedLinks: links,
	})

	eng, idx := newTestEngine(t, fetcher, allowAllRobots{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	err := eng.Run(ctx, docfetchd.CrawlRequest{
		StartURL:        "http://example.test/",
		MaxDepth:        5,
		PolitenessDelay: time.Second,
	})
	require.Error(t, err)

	for _, rec := range idx.snapshot() {
		assert.NotEqual(t, docfetchd.FetchFailedOther, rec.FetchStatus, "cancelled item should not have produced a row")
	}
}
