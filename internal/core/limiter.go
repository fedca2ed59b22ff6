package core

// limiter.go bounds how many analyses run at once.
//
// Each analysis holds a parsed upload in memory, so parallelism is capped by
// a semaphore. When all slots are taken, new requests wait up to maxWait
// before failing with ErrTooManyAnalyses. WaitForDrain blocks until the
// in-flight analyses finish and is used during shutdown.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyAnalyses is returned when no slot frees up before the wait
// timeout expires. Clients should retry after a short delay.
var ErrTooManyAnalyses = errors.New("too many concurrent analyses, please try again later")

// DefaultMaxConcurrentAnalyses is the default limit for parallel analyses.
const DefaultMaxConcurrentAnalyses = 4

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 30 * time.Second

// AnalysisLimiter controls concurrent analyses using a semaphore.
type AnalysisLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewAnalysisLimiter creates a limiter that allows at most maxConcurrent
// simultaneous analyses. Non-positive arguments select the defaults.
func NewAnalysisLimiter(maxConcurrent int, maxWait time.Duration) *AnalysisLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentAnalyses
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	return &AnalysisLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire waits for a slot.
// Returns nil on success, ErrTooManyAnalyses if the wait times out, or the
// context's error if ctx is done first. The caller must Release on success.
func (l *AnalysisLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyAnalyses
	}
}

// TryAcquire attempts to acquire a slot without blocking.
func (l *AnalysisLimiter) TryAcquire() bool {
	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return true
	default:
		return false
	}
}

// Release frees a slot taken by Acquire or TryAcquire.
func (l *AnalysisLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of analyses in flight.
func (l *AnalysisLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// Available returns the number of free slots.
func (l *AnalysisLimiter) Available() int {
	return cap(l.semaphore) - len(l.semaphore)
}

// WaitForDrain blocks until no analysis is in flight or ctx is done.
func (l *AnalysisLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// LimiterStatus is a snapshot of the limiter's state.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state for the health endpoint.
func (l *AnalysisLimiter) Status() LimiterStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return LimiterStatus{
		Active:        active,
		Available:     l.Available(),
		MaxConcurrent: cap(l.semaphore),
	}
}
