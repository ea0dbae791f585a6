package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingUpdater struct {
	calls atomic.Int32
	err   error
}

func (c *countingUpdater) Name() string {
	return "test sensor"
}

func (c *countingUpdater) Update(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("update without deadline")
	}
	c.calls.Add(1)
	return c.err
}

func TestPollerRunsImmediately(t *testing.T) {
	u := &countingUpdater{}
	p := New(u, time.Hour)
	if err := p.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer p.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for u.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := u.calls.Load(); got != 1 {
		t.Errorf("got %d updates, want 1", got)
	}
}

func TestRunSurvivesError(t *testing.T) {
	u := &countingUpdater{err: errors.New("boom")}
	p := New(u, time.Hour)

	p.run()
	p.run()
	if got := u.calls.Load(); got != 2 {
		t.Errorf("got %d updates, want 2", got)
	}
}
