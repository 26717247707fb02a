package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	LoginBurst  = 5
	LoginRefill = 10 * time.Second

	// maxTrackedClients bounds the limiter map; past it the map starts over.
	maxTrackedClients = 10000
)

// Limiter throttles login attempts per client address.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func NewLimiter(every time.Duration, burst int) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Every(every),
		burst:    burst,
	}
}

// Allow spends one attempt for key and reports whether it was available.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxTrackedClients {
			l.limiters = make(map[string]*rate.Limiter)
		}
		lim = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}
