package ratelimit

import (
	"context"
	"sync"
	"time"
)

// memoryWindow tracks one client's request count for a single second.
type memoryWindow struct {
	sec   int64
	count int
}

// MemoryLimiter is a per-process fixed-window limiter, used when no Redis
// backend is configured. Keys are client IPs and churn constantly, so
// expired windows are swept on the first request of each new second to
// keep the map from growing with one entry per caller ever seen.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
	swept   int64
}

// NewMemoryLimiter constructs a MemoryLimiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*memoryWindow),
	}
}

// Allow checks whether the request should be allowed in the current second.
func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, now time.Time) (Result, error) {
	if l == nil || limit <= 0 || key == "" {
		return Result{Allowed: true}, nil
	}
	sec := now.Unix()
	reset := time.Unix(sec+1, 0).UTC()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep(sec)

	window := l.windows[key]
	if window == nil || window.sec != sec {
		window = &memoryWindow{sec: sec}
		l.windows[key] = window
	}
	if window.count >= limit {
		return Result{Allowed: false, Remaining: 0, Reset: reset}, nil
	}
	window.count++
	return Result{Allowed: true, Remaining: limit - window.count, Reset: reset}, nil
}

// sweep drops windows from past seconds, at most once per second.
func (l *MemoryLimiter) sweep(sec int64) {
	if l.swept == sec {
		return
	}
	l.swept = sec
	for key, window := range l.windows {
		if window.sec < sec {
			delete(l.windows, key)
		}
	}
}
