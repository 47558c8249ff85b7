// Package ratelimit implements the per-user sliding-window download quota.
//
// Each user gets a window's worth of timestamps; a check prunes anything
// older than the window, denies at quota, and otherwise records the attempt.
// Records live in a TTL cache so users who stop interacting age out instead
// of accumulating forever.
package ratelimit

import (
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	// DefaultWindow is the trailing window downloads are counted in.
	DefaultWindow = time.Hour
	// DefaultQuota is the maximum number of downloads per user per window.
	DefaultQuota = 10
)

// Result is the outcome of a single admission check.
type Result struct {
	Admitted  bool
	Remaining int           // slots left in the window, valid when admitted
	Wait      time.Duration // time until the oldest slot frees, valid when denied
}

// Limiter tracks per-user download timestamps in a trailing window.
type Limiter struct {
	mu     sync.Mutex
	window time.Duration
	quota  int
	store  *cache.Cache
	now    func() time.Time
}

// New creates a Limiter. Entries for idle users expire one window after
// their last attempt.
func New(window time.Duration, quota int) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	if quota <= 0 {
		quota = DefaultQuota
	}
	return &Limiter{
		window: window,
		quota:  quota,
		store:  cache.New(window, 2*window),
		now:    time.Now,
	}
}

// CheckAndRecord decides whether userID may start a download now.
// The check and the recording are one atomic step, so two concurrent
// requests from the same user cannot both take the last slot.
func (l *Limiter) CheckAndRecord(userID int64) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	key := strconv.FormatInt(userID, 10)

	var stamps []time.Time
	if v, ok := l.store.Get(key); ok {
		stamps = v.([]time.Time)
	}

	// prune everything outside the trailing window
	kept := stamps[:0]
	for _, t := range stamps {
		if now.Sub(t) < l.window {
			kept = append(kept, t)
		}
	}

	// deny at quota, not above it
	if len(kept) >= l.quota {
		l.store.Set(key, kept, l.window)
		return Result{
			Admitted: false,
			Wait:     l.window - now.Sub(kept[0]),
		}
	}

	kept = append(kept, now)
	l.store.Set(key, kept, l.window)
	return Result{
		Admitted:  true,
		Remaining: l.quota - len(kept),
	}
}

// Tracked returns the number of users currently holding records.
func (l *Limiter) Tracked() int {
	return l.store.ItemCount()
}
