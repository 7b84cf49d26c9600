package fetch

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// DomainLimiter paces requests per host with a token bucket per host and no
// bursting, so fetches to different hosts are independent.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter returns nil for a non-positive rate, which disables
// limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	if rps <= 0 {
		return nil
	}
	return &DomainLimiter{limiters: make(map[string]*rate.Limiter), rps: rps}
}

// Wait blocks until host may be requested again or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	if d == nil {
		return nil
	}
	host = strings.ToLower(host)
	d.mu.Lock()
	l, ok := d.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[host] = l
	}
	d.mu.Unlock()
	return l.Wait(ctx)
}
