package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewTimeout(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{})

	if timeout.config.Timeout != time.Second {
		t.Errorf("Timeout = %v, want 1s", timeout.config.Timeout)
	}
}

func TestTimeout_RaceSuccess(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{Timeout: time.Second})

	executed := false
	outcome := timeout.Race(context.Background(), func(ctx context.Context) error {
		executed = true
		return nil
	})

	if outcome.Err != nil {
		t.Errorf("Race() error = %v", outcome.Err)
	}
	if outcome.TimedOut {
		t.Error("Race() TimedOut = true, want false")
	}
	if !executed {
		t.Error("Operation was not executed")
	}
	if outcome.Elapsed < 0 {
		t.Errorf("Elapsed = %v, want >= 0", outcome.Elapsed)
	}
}

func TestTimeout_RaceError(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{Timeout: time.Second})

	testErr := errors.New("test error")
	outcome := timeout.Race(context.Background(), func(ctx context.Context) error {
		return testErr
	})

	if outcome.Err != testErr {
		t.Errorf("Race() error = %v, want %v", outcome.Err, testErr)
	}
	if outcome.TimedOut {
		t.Error("Race() TimedOut = true, want false")
	}
}

func TestTimeout_RaceTimeout(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{Timeout: 10 * time.Millisecond})

	outcome := timeout.Race(context.Background(), func(ctx context.Context) error {
		time.Sleep(100 * time.Millisecond)
		return nil
	})

	if outcome.Err != ErrTimeout {
		t.Errorf("Race() error = %v, want ErrTimeout", outcome.Err)
	}
	if !outcome.TimedOut {
		t.Error("Race() TimedOut = false, want true")
	}
	if outcome.Elapsed >= 100*time.Millisecond {
		t.Errorf("Elapsed = %v, race should settle at the deadline", outcome.Elapsed)
	}
}

func TestTimeout_RaceDeadlineErrorCountsAsTimeout(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{Timeout: 10 * time.Millisecond})

	outcome := timeout.Race(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	if !outcome.TimedOut {
		t.Errorf("Race() TimedOut = false, want true (err = %v)", outcome.Err)
	}
	if outcome.Err != ErrTimeout {
		t.Errorf("Race() error = %v, want ErrTimeout", outcome.Err)
	}
}

func TestTimeout_RacePanic(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{Timeout: time.Second})

	outcome := timeout.Race(context.Background(), func(ctx context.Context) error {
		panic("boom")
	})

	if !errors.Is(outcome.Err, ErrPanic) {
		t.Fatalf("Race() error = %v, want ErrPanic", outcome.Err)
	}
	if outcome.Err.Error() != "panic: boom" {
		t.Errorf("Error() = %q, want %q", outcome.Err.Error(), "panic: boom")
	}

	var pe *PanicError
	if !errors.As(outcome.Err, &pe) || pe.Value != "boom" {
		t.Errorf("PanicError.Value = %v, want boom", pe)
	}
}

func TestTimeout_RaceContextCancelled(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{Timeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())

	outcome := timeout.Race(ctx, func(ctx context.Context) error {
		cancel()
		<-ctx.Done()
		return ctx.Err()
	})

	if outcome.Err != context.Canceled {
		t.Errorf("Race() error = %v, want context.Canceled", outcome.Err)
	}
	if outcome.TimedOut {
		t.Error("cancellation should not count as a timeout")
	}
}

func TestTimeout_LateResultIsDiscarded(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{Timeout: 10 * time.Millisecond})

	finished := make(chan struct{})
	outcome := timeout.Race(context.Background(), func(ctx context.Context) error {
		defer close(finished)
		time.Sleep(30 * time.Millisecond)
		return errors.New("too late")
	})

	if outcome.Err != ErrTimeout {
		t.Errorf("Race() error = %v, want ErrTimeout", outcome.Err)
	}

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Error("Operation goroutine did not complete")
	}
}

func TestTimeout_Config(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{Timeout: 5 * time.Second})

	config := timeout.Config()
	if config.Timeout != 5*time.Second {
		t.Errorf("Config().Timeout = %v, want 5s", config.Timeout)
	}
}
