package crawl

import (
	"sync"

	"github.com/docfetchd/docfetchd"
	"github.com/docfetchd/docfetchd/bloom"
)

const (
	bloomExpectedURLs    = 10000
	bloomFalsePositiveRate = 0.01
)

var _ docfetchd.VisitedSet = (*VisitedSet)(nil)

// VisitedSet tracks the canonical URLs admitted to one job's work queue.
// Both checks run under one lock. A Bloom filter answers the common
// "definitely not seen" case without a map lookup; a filter hit falls
// through to the exact map so a false positive never causes a URL to be
// silently skipped (I1 requires exact insert-before-enqueue semantics).
type VisitedSet struct {
	mu      sync.Mutex
	filter  *bloom.Filter
	exact   map[string]struct{}
}

// NewVisitedSet creates a VisitedSet whose Bloom pre-filter is sized for
// n expected URLs.
func NewVisitedSet(n uint) *VisitedSet {
	return &VisitedSet{
		filter: bloom.NewFilter(n, bloomFalsePositiveRate),
		exact:  make(map[string]struct{}),
	}
}

// InsertIfAbsent implements docfetchd.VisitedSet.
func (v *VisitedSet) InsertIfAbsent(canonicalURL string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.filter.Test(canonicalURL) {
		if _, ok := v.exact[canonicalURL]; ok {
			return false
		}
	}

	v.filter.Add(canonicalURL)
	v.exact[canonicalURL] = struct{}{}
	return true
}
