package crawl

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Politeness enforces a minimum wall-clock gap between fetches to the
// same authority within a job. Each authority gets its own token bucket
// with a burst of 1, so Wait never lets two fetches to the same
// authority land closer together than the configured delay.
type Politeness struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewPoliteness creates a Politeness enforcer requiring at least delay
// between fetches to one authority. A non-positive delay disables
// throttling.
func NewPoliteness(delay time.Duration) *Politeness {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Politeness{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until it is polite to fetch authority again, or until ctx is
// done, in which case it returns ctx.Err().
func (p *Politeness) Wait(ctx context.Context, authority string) error {
	p.mu.Lock()
	limiter, ok := p.limiters[authority]
	if !ok {
		limiter = rate.NewLimiter(p.limit, 1)
		p.limiters[authority] = limiter
	}
	p.mu.Unlock()

	r := limiter.Reserve()
	delay := r.Delay()
	if delay == 0 {
		return nil
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}
