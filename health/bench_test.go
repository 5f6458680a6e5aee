package health

import (
	"context"
	"fmt"
	"testing"
)

func BenchmarkMonitor_Status(b *testing.B) {
	m := NewMonitor(MonitorConfig{})
	for i := range 10 {
		m.Register(Indicator{Name: fmt.Sprintf("ind-%d", i), Check: func(ctx context.Context) error { return nil }})
	}
	m.inProgress.Store(true)
	m.runCycle(context.Background())

	b.ResetTimer()
	for b.Loop() {
		_ = m.Status()
	}
}

func BenchmarkMonitor_StatusParallel(b *testing.B) {
	m := NewMonitor(MonitorConfig{})

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = m.Status()
		}
	})
}

func BenchmarkMonitor_Cycle(b *testing.B) {
	for _, n := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("indicators=%d", n), func(b *testing.B) {
			m := NewMonitor(MonitorConfig{})
			for i := range n {
				m.Register(Indicator{Name: fmt.Sprintf("ind-%d", i), Check: func(ctx context.Context) error { return nil }})
			}

			for b.Loop() {
				m.inProgress.Store(true)
				m.runCycle(context.Background())
			}
		})
	}
}
