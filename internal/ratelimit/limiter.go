// Package ratelimit implements the fixed-window admission gate that fronts
// the analysis pipeline.
package ratelimit

import (
	"sync"
	"time"

	"github.com/SubodhKumarSahu2826/CyberGuard/internal/models"
)

// DefaultSweepInterval is how often windows past their reset time are removed,
// bounding memory to recently active identifiers.
const DefaultSweepInterval = 60 * time.Second

type window struct {
	count   int
	resetAt time.Time
}

// Limiter is a per-identifier fixed-window counter. Identifiers are
// independent: one caller's window never affects another's.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window

	sweepInterval time.Duration
	stop          chan struct{}
	stopOnce      sync.Once
}

// New creates a limiter and starts its background sweep.
func New(sweepInterval time.Duration) *Limiter {
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}

	l := &Limiter{
		windows:       make(map[string]*window),
		sweepInterval: sweepInterval,
		stop:          make(chan struct{}),
	}

	go l.sweepLoop()

	return l
}

// Identifier builds the canonical per-caller-per-route key.
func Identifier(sourceAddr, routeClass string) string {
	return sourceAddr + ":" + routeClass
}

// CheckLimit admits or rejects one call for identifier under (limit, window).
// A window whose reset time has passed is replaced wholesale; the first call
// of a fresh window is always admitted with count 1.
func (l *Limiter) CheckLimit(identifier string, limit int, windowDur time.Duration) models.RateDecision {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[identifier]
	if !ok || !now.Before(w.resetAt) {
		w = &window{count: 1, resetAt: now.Add(windowDur)}
		l.windows[identifier] = w
		return models.RateDecision{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - 1,
			ResetAt:   w.resetAt.Unix(),
		}
	}

	if w.count >= limit {
		retryAfter := int64(time.Until(w.resetAt).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		return models.RateDecision{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			ResetAt:    w.resetAt.Unix(),
			RetryAfter: retryAfter,
		}
	}

	w.count++
	return models.RateDecision{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - w.count,
		ResetAt:   w.resetAt.Unix(),
	}
}

// ActiveWindows reports the number of tracked windows, stale ones included.
func (l *Limiter) ActiveWindows() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// Stop terminates the background sweep.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.stop)
	})
}

func (l *Limiter) sweepLoop() {
	ticker := time.NewTicker(l.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.removeStale()
		case <-l.stop:
			return
		}
	}
}

func (l *Limiter) removeStale() {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for id, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, id)
		}
	}
}
