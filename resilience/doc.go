// Package resilience provides the timeout race used to bound health checks.
//
// A Timeout runs an operation on its own goroutine and waits for whichever
// happens first: the operation returning, or the deadline passing. The
// operation is not abandoned mid-flight; it keeps running after a timeout
// and its eventual result is dropped.
//
// # Usage
//
//	t := resilience.NewTimeout(resilience.TimeoutConfig{Timeout: time.Second})
//
//	outcome := t.Race(ctx, func(ctx context.Context) error {
//	    return db.PingContext(ctx)
//	})
//	if outcome.TimedOut {
//	    log.Printf("ping exceeded %v", t.Config().Timeout)
//	}
//
// Panics raised by the operation are recovered on the operation's goroutine
// and reported as a *PanicError, so a misbehaving callback never takes the
// host process down.
package resilience
