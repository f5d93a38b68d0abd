package crawl

import (
	"context"
	"sync"

	"github.com/docfetchd/docfetchd"
)

var _ docfetchd.Frontier = (*Frontier)(nil)

// Frontier is a bounded channel-backed work queue. Push blocks once the
// queue is full, which is the back-pressure mechanism §5 requires to cap
// memory on very large sites.
type Frontier struct {
	items     chan docfetchd.QueueItem
	closeOnce sync.Once
}

// NewFrontier creates a Frontier with the given capacity.
func NewFrontier(capacity int) *Frontier {
	if capacity <= 0 {
		capacity = 10000
	}
	return &Frontier{items: make(chan docfetchd.QueueItem, capacity)}
}

// Push implements docfetchd.Frontier.
func (f *Frontier) Push(ctx context.Context, item docfetchd.QueueItem) error {
	select {
	case f.items <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pop implements docfetchd.Frontier.
func (f *Frontier) Pop(ctx context.Context) (docfetchd.QueueItem, bool) {
	select {
	case item, ok := <-f.items:
		return item, ok
	case <-ctx.Done():
		return docfetchd.QueueItem{}, false
	}
}

// Close implements docfetchd.Frontier. Safe to call more than once.
func (f *Frontier) Close() {
	f.closeOnce.Do(func() { close(f.items) })
}

// Drain discards any items still buffered in the queue without blocking,
// returning how many were removed. It is only safe to call once every
// producer and consumer has stopped touching the frontier, for example
// after a cancelled crawl's workers have all returned from Run's
// errgroup.Wait.
func (f *Frontier) Drain() int {
	n := 0
	for {
		select {
		case _, ok := <-f.items:
			if !ok {
				return n
			}
			n++
		default:
			return n
		}
	}
}
