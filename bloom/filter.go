// Package bloom provides a probabilistic pre-filter for canonical-URL
// deduplication, sized per crawl job. It never produces false negatives,
// so a miss here is a reliable "definitely not visited yet" signal; a
// hit still requires confirmation against an exact set before a URL is
// treated as visited (see crawl.VisitedSet).
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter wraps a sized Bloom filter for one job's visited-URL pre-check.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records a canonical URL in the filter.
func (f *Filter) Add(canonicalURL string) {
	f.f.AddString(canonicalURL)
}

// Test returns true if canonicalURL might already be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(canonicalURL string) bool {
	return f.f.TestString(canonicalURL)
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
