package network

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithRetryRecovers(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, time.Millisecond, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("withRetry() = %v, want nil", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestWithRetryExhausts(t *testing.T) {
	errBoom := errors.New("boom")
	calls := 0
	err := withRetry(context.Background(), 2, time.Millisecond, func(context.Context) error {
		calls++
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("withRetry() = %v, want %v", err, errBoom)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	err := withRetry(ctx, 5, time.Hour, func(context.Context) error {
		cancel()
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("withRetry() = %v, want context.Canceled", err)
	}
}

func TestNextRetryDelayCapped(t *testing.T) {
	delay := 500 * time.Millisecond
	for i := 0; i < 10; i++ {
		delay = nextRetryDelay(delay)
		if delay > maxRetryDelay {
			t.Fatalf("delay = %s, exceeds cap %s", delay, maxRetryDelay)
		}
	}
	if delay != maxRetryDelay {
		t.Fatalf("delay = %s, want cap %s", delay, maxRetryDelay)
	}
}
