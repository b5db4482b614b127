package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewRejectsBadSpec(t *testing.T) {
	if _, err := New("every now and then", func(context.Context) {}); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}

func TestRunFiresUntilCancelled(t *testing.T) {
	var runs atomic.Int32
	s, err := New("@every 1s", func(context.Context) { runs.Add(1) })
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	if runs.Load() < 1 {
		t.Errorf("job ran %d times, want at least 1", runs.Load())
	}
}
