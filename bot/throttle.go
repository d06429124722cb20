package bot

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// xpThrottle sheds message events before they reach the leveling
// service. It is not the authoritative cooldown: the ledger's own
// last-grant check decides whether XP is applied. This gate only saves
// a database round trip for users who are chatting faster than the
// cooldown window.
type xpThrottle struct {
	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
	window   time.Duration
}

func newXPThrottle(window time.Duration) *xpThrottle {
	return &xpThrottle{
		limiters: make(map[int64]*rate.Limiter),
		window:   window,
	}
}

// Allow reports whether a message from userID should be forwarded to
// the leveling service
func (t *xpThrottle) Allow(userID int64) bool {
	t.mu.Lock()
	limiter, ok := t.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(t.window), 1)
		t.limiters[userID] = limiter
	}
	t.mu.Unlock()

	return limiter.Allow()
}

// Prune drops limiters that have fully refilled, so the map doesn't
// grow with every user the bot has ever seen
func (t *xpThrottle) Prune() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for userID, limiter := range t.limiters {
		if limiter.Tokens() >= 1 {
			delete(t.limiters, userID)
		}
	}
}
