package signal

import (
	"sync"
	"time"
)

// EventRateLimiter is a sliding-window limiter over one connection's
// inbound signal events. Each connection carries its own limiter, so
// anonymous connections and superseded registrations never share or
// clobber each other's history. Over-limit events are dropped, the
// connection survives.
type EventRateLimiter struct {
	mu       sync.Mutex
	history  []time.Time
	limit    int
	interval time.Duration
}

func NewEventRateLimiter(limit int, interval time.Duration) *EventRateLimiter {
	return &EventRateLimiter{
		history:  make([]time.Time, 0, limit),
		limit:    limit,
		interval: interval,
	}
}

func (rl *EventRateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.interval)

	fresh := rl.history[:0]
	for _, t := range rl.history {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}
	rl.history = fresh

	if len(rl.history) >= rl.limit {
		return false
	}
	rl.history = append(rl.history, now)
	return true
}
