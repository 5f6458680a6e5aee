package health

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
)

// MemoryIndicatorConfig configures the Go heap indicator.
type MemoryIndicatorConfig struct {
	// Name is the detail key. Default: "memory"
	Name string

	// Threshold is the allocated/limit ratio at which the indicator goes down.
	// Value should be between 0 and 1. Default: 0.95
	Threshold float64

	// MaxAlloc is the allocation limit in bytes.
	// If zero, the runtime's Sys figure is used.
	MaxAlloc uint64

	// Timeout overrides the monitor default.
	Timeout time.Duration
}

func (c MemoryIndicatorConfig) withDefaults() MemoryIndicatorConfig {
	if c.Name == "" {
		c.Name = "memory"
	}
	if c.Threshold <= 0 || c.Threshold > 1 {
		c.Threshold = 0.95
	}
	return c
}

// MemoryIndicator reports down when Go heap allocation reaches the threshold.
func MemoryIndicator(config MemoryIndicatorConfig) Indicator {
	config = config.withDefaults()

	return Indicator{
		Name:    config.Name,
		Timeout: config.Timeout,
		Check: func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}

			var stats runtime.MemStats
			runtime.ReadMemStats(&stats)

			limit := config.MaxAlloc
			if limit == 0 {
				limit = stats.Sys
			}
			if limit == 0 {
				return nil
			}

			ratio := float64(stats.Alloc) / float64(limit)
			if ratio >= config.Threshold {
				return fmt.Errorf("%w: memory usage critical: %.1f%% of %d bytes",
					ErrCheckFailed, ratio*100, limit)
			}
			return nil
		},
	}
}

// virtualMemory is swapped in tests.
var virtualMemory = mem.VirtualMemoryWithContext

// SystemMemoryIndicator reports down when host memory use reaches threshold
// (a ratio between 0 and 1; out-of-range values default to 0.95).
func SystemMemoryIndicator(threshold float64) Indicator {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.95
	}

	return Indicator{
		Name: "system_memory",
		Check: func(ctx context.Context) error {
			vm, err := virtualMemory(ctx)
			if err != nil {
				return fmt.Errorf("read host memory: %w", err)
			}
			if vm.UsedPercent/100 >= threshold {
				return fmt.Errorf("%w: host memory usage critical: %.1f%%", ErrCheckFailed, vm.UsedPercent)
			}
			return nil
		},
	}
}
