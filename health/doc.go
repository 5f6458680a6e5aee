// Package health provides a self-scheduling health monitor for a
// long-running process.
//
// A Monitor owns a recurring check cycle. Each cycle measures scheduler lag,
// runs every registered Indicator concurrently (each raced against its own
// timeout), and atomically publishes one HealthStatus snapshot. Status
// returns the latest snapshot, or a synthetic "stalled" snapshot when the
// cycle loop has not refreshed it for more than three intervals.
//
// # Basic Usage
//
//	mon := health.NewMonitor(health.MonitorConfig{
//	    Interval: 3 * time.Second,
//	    Timeout:  time.Second,
//	})
//
//	mon.Register(health.Indicator{
//	    Name:  "database",
//	    Check: db.PingContext,
//	}).Register(health.MemoryIndicator(health.MemoryIndicatorConfig{}))
//
//	mon.Start()
//	defer mon.Stop()
//
//	status := mon.Status()
//	if status.Status == health.StatusDown {
//	    log.Printf("unhealthy: %+v", status.Details)
//	}
//
// # Cycles
//
// At most one cycle runs at a time. A tick that fires while a cycle is still
// in flight is dropped, not queued. Stop prevents further ticks but lets an
// in-flight cycle finish and publish.
//
// # HTTP Endpoints
//
// The package provides handlers mapping the snapshot to an HTTP response:
//
//	// Liveness probe
//	http.Handle("/healthz", health.LivenessHandler())
//
//	// Snapshot as JSON, 200 when ok and 503 when down
//	http.Handle("/health", health.Handler(mon))
package health
