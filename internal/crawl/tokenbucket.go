package crawl

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// defaultHostRate and defaultHostBurst implement spec §4.2's per-host
// politeness token bucket (default 2 req/s, burst 4).
const (
	defaultHostRate  = 2
	defaultHostBurst = 4
)

// HostLimiter hands out a per-host rate.Limiter, created lazily on first use.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

// NewHostLimiter creates a HostLimiter using the spec default rate/burst.
func NewHostLimiter() *HostLimiter {
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      defaultHostRate,
		burst:    defaultHostBurst,
	}
}

// Wait blocks until the host's bucket admits one request, or ctx is done.
func (h *HostLimiter) Wait(ctx context.Context, host string) error {
	return h.forHost(host).Wait(ctx)
}

func (h *HostLimiter) forHost(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()

	limiter, ok := h.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(h.rps, h.burst)
		h.limiters[host] = limiter
	}
	return limiter
}
