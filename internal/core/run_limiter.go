package core

// run_limiter.go keeps card-list runs from overlapping.
//
// The Card List has a single writer at a time. Runs can be started from the
// terminal menu and from HTTP, so a run must hold the limiter's slot before
// it reads or writes any sheet. A run that cannot get the slot within
// maxWait fails with ErrRunInProgress.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrRunInProgress is returned when another run holds the slot and the wait
// timeout expires.
var ErrRunInProgress = errors.New("another card list run is in progress, please try again later")

// DefaultRunWait is how long to wait for the slot before rejecting.
const DefaultRunWait = 30 * time.Second

// RunLimiter is a single-slot semaphore guarding the Card List.
type RunLimiter struct {
	slot    chan struct{}
	maxWait time.Duration

	mu      sync.RWMutex
	current RunAction
	since   time.Time
}

// NewRunLimiter creates a limiter whose Acquire waits at most maxWait.
func NewRunLimiter(maxWait time.Duration) *RunLimiter {
	if maxWait <= 0 {
		maxWait = DefaultRunWait
	}
	return &RunLimiter{
		slot:    make(chan struct{}, 1),
		maxWait: maxWait,
	}
}

// Acquire takes the slot for action. The caller MUST call Release when the
// run completes (use defer).
func (l *RunLimiter) Acquire(ctx context.Context, action RunAction) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.slot <- struct{}{}:
		l.mark(action)
		return nil

	case <-waitCtx.Done():
		// Check if original context was cancelled vs timeout
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrRunInProgress
	}
}

// TryAcquire takes the slot without blocking.
func (l *RunLimiter) TryAcquire(action RunAction) bool {
	select {
	case l.slot <- struct{}{}:
		l.mark(action)
		return true
	default:
		return false
	}
}

// Release frees the slot. Must be called exactly once per successful
// Acquire or TryAcquire.
func (l *RunLimiter) Release() {
	l.mu.Lock()
	l.current = ""
	l.since = time.Time{}
	l.mu.Unlock()

	<-l.slot
}

func (l *RunLimiter) mark(action RunAction) {
	l.mu.Lock()
	l.current = action
	l.since = time.Now()
	l.mu.Unlock()
}

// WaitForDrain blocks until no run holds the slot or ctx is done.
// Used for graceful shutdown.
func (l *RunLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if len(l.slot) == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunLimiterStatus is a snapshot of the limiter.
type RunLimiterStatus struct {
	Busy   bool      `json:"busy"`
	Action RunAction `json:"action,omitempty"`
	Since  time.Time `json:"since,omitzero"`
}

// Status returns the current limiter state for monitoring.
func (l *RunLimiter) Status() RunLimiterStatus {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return RunLimiterStatus{
		Busy:   len(l.slot) > 0,
		Action: l.current,
		Since:  l.since,
	}
}
