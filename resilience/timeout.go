package resilience

import (
	"context"
	"errors"
	"time"
)

// TimeoutConfig configures the timeout race.
type TimeoutConfig struct {
	// Timeout is the maximum duration for the operation.
	// Default: 1 second
	Timeout time.Duration
}

// Outcome describes how a raced operation settled.
type Outcome struct {
	// Err is nil on success, ErrTimeout when the deadline won, or the
	// operation's own error.
	Err error

	// Elapsed is the time from launch until the race settled.
	Elapsed time.Duration

	// TimedOut is true when the deadline fired before the operation returned.
	TimedOut bool
}

// Timeout races operations against a fixed deadline.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a new timeout race.
func NewTimeout(config TimeoutConfig) *Timeout {
	if config.Timeout <= 0 {
		config.Timeout = time.Second
	}

	return &Timeout{config: config}
}

// Race runs op on its own goroutine and returns as soon as either op returns
// or the timeout elapses. op receives a context that is cancelled when the
// race is lost; whatever it returns afterwards is discarded.
func (t *Timeout) Race(ctx context.Context, op func(context.Context) error) Outcome {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	// Buffered so a late result never blocks the abandoned goroutine.
	done := make(chan error, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- &PanicError{Value: r}
			}
		}()
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		// An op that returns ctx.Err() right at the deadline still lost the race.
		if err != nil && errors.Is(err, context.DeadlineExceeded) && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Outcome{Err: ErrTimeout, Elapsed: time.Since(start), TimedOut: true}
		}
		return Outcome{Err: err, Elapsed: time.Since(start)}
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Outcome{Err: ErrTimeout, Elapsed: time.Since(start), TimedOut: true}
		}
		return Outcome{Err: ctx.Err(), Elapsed: time.Since(start)}
	}
}

// Config returns the timeout configuration.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}
