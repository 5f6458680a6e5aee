package health

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iu7726/health-monitor/observe"
)

// Monitor runs registered indicators on a fixed interval and serves the most
// recent result.
type Monitor struct {
	config  MonitorConfig
	logger  observe.Logger
	metrics observe.Metrics
	tracer  observe.Tracer

	mu         sync.Mutex
	indicators []Indicator
	stop       chan struct{} // nil while stopped

	inProgress atomic.Bool
	snapshot   atomic.Pointer[HealthStatus]
}

// NewMonitor creates a stopped monitor. Zero config fields take their
// defaults. The initial snapshot is ok with no details.
func NewMonitor(config MonitorConfig, opts ...Option) *Monitor {
	m := &Monitor{config: config.withDefaults()}
	WithInstruments(observe.NopInstruments())(m)
	for _, opt := range opts {
		opt(m)
	}

	m.snapshot.Store(&HealthStatus{
		Status:    StatusOK,
		Details:   map[string]ComponentDetail{},
		Timestamp: time.Now(),
	})
	return m
}

// Register appends an indicator. It applies from the next cycle that has not
// yet read the registry. Duplicate names are kept; within a cycle the later
// registration's outcome occupies the shared detail slot.
func (m *Monitor) Register(ind Indicator) *Monitor {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.indicators = append(m.indicators, ind)
	return m
}

// Indicators returns the registered indicator names in registration order.
func (m *Monitor) Indicators() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, len(m.indicators))
	for i, ind := range m.indicators {
		names[i] = ind.Name
	}
	return names
}

// Config returns the effective configuration.
func (m *Monitor) Config() MonitorConfig {
	return m.config
}

// Start triggers a cycle immediately and then one every Interval. Calling
// Start on a running monitor does nothing.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stop != nil {
		return
	}
	stop := make(chan struct{})
	m.stop = stop

	m.trigger()
	go m.loop(stop)
}

// Stop disarms the ticker. A cycle already in flight runs to completion and
// publishes its snapshot. Calling Stop on a stopped monitor does nothing.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stop == nil {
		return
	}
	close(m.stop)
	m.stop = nil
}

// Running reports whether the ticker is armed.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stop != nil
}

// Status returns the latest snapshot. If it is older than three intervals,
// a fresh stalled snapshot is returned instead; the stored snapshot is left
// untouched so its details reappear once cycles resume.
func (m *Monitor) Status() HealthStatus {
	snap := m.snapshot.Load()
	now := time.Now()

	if age := now.Sub(snap.Timestamp); age > m.config.StaleAfter() {
		return stalledStatus(age, now)
	}
	return snap.clone()
}

func (m *Monitor) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// Both may be ready; Stop wins.
			select {
			case <-stop:
				return
			default:
			}
			m.trigger()
		}
	}
}

// trigger launches a cycle unless one is already running, in which case the
// tick is dropped.
func (m *Monitor) trigger() {
	if !m.inProgress.CompareAndSwap(false, true) {
		ctx := context.Background()
		m.metrics.RecordDropped(ctx)
		m.logger.Debug(ctx, "health check cycle still running, tick dropped")
		return
	}
	go m.runCycle(context.Background())
}
