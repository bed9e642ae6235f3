package reddit

import (
	"sync"
	"time"
)

// RateLimiter bounds outbound requests to the authenticated Reddit API with a
// fixed window, keeping the process below Reddit's 60/min quota. Advisory
// client-side throttling only: it never inspects upstream response headers.
// The check-budget-then-increment sequence is a single critical section.
type RateLimiter struct {
	budget int
	window time.Duration

	mu      sync.Mutex
	count   int
	resetAt time.Time

	now func() time.Time
}

func NewRateLimiter(budget int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		budget: budget,
		window: window,
		now:    time.Now,
	}
}

// TryAcquire consumes one request from the current window's budget. Returns
// ErrRateLimited without incrementing when the budget is exhausted.
func (rl *RateLimiter) TryAcquire() error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.After(rl.resetAt) {
		rl.count = 0
		rl.resetAt = now.Add(rl.window)
	}

	if rl.count >= rl.budget {
		return ErrRateLimited
	}

	rl.count++
	return nil
}

// Remaining reports how many requests are left in the current window.
func (rl *RateLimiter) Remaining() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.now().After(rl.resetAt) {
		return rl.budget
	}
	return rl.budget - rl.count
}
