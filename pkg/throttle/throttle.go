package throttle

import (
	"sync"
	"time"
)

// Throttle runs a function at most once per gap. A run that fails does not
// count, so the next call tries again.
type Throttle struct {
	gap time.Duration

	mu   sync.Mutex
	last time.Time
}

// New creates a Throttle that lets a call through once gap has passed since
// the start of the last successful one.
func New(gap time.Duration) *Throttle {
	return &Throttle{gap: gap}
}

// Do calls fn unless it last succeeded less than gap ago. Calls are
// serialized; ran reports whether fn was called.
func (t *Throttle) Do(fn func() error) (ran bool, err error) {
	return t.do(fn, time.Now)
}

// do performs Do's work with the wall clock factored out.
func (t *Throttle) do(fn func() error, now func() time.Time) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	start := now()
	if !t.last.IsZero() && start.Sub(t.last) < t.gap {
		return false, nil
	}

	if err := fn(); err != nil {
		return true, err
	}
	// The gap counts from when the run started, so callers ticking exactly
	// one gap apart are never skipped.
	t.last = start
	return true, nil
}
