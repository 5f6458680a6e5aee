package health

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shirou/gopsutil/v3/mem"
)

func TestMemoryIndicator_Defaults(t *testing.T) {
	ind := MemoryIndicator(MemoryIndicatorConfig{})

	if ind.Name != "memory" {
		t.Errorf("Name = %v, want 'memory'", ind.Name)
	}
	if ind.Timeout != 0 {
		t.Errorf("Timeout = %v, want 0 (monitor default)", ind.Timeout)
	}
	if ind.Check == nil {
		t.Fatal("Check should not be nil")
	}
}

func TestMemoryIndicator_Check(t *testing.T) {
	ind := MemoryIndicator(MemoryIndicatorConfig{Name: "heap"})

	if err := ind.Check(context.Background()); err != nil {
		t.Errorf("Check() error = %v, want nil under normal usage", err)
	}
	if ind.Name != "heap" {
		t.Errorf("Name = %v, want 'heap'", ind.Name)
	}
}

func TestMemoryIndicator_ThresholdExceeded(t *testing.T) {
	ind := MemoryIndicator(MemoryIndicatorConfig{
		Threshold: 0.5,
		MaxAlloc:  1, // any live heap exceeds one byte
	})

	err := ind.Check(context.Background())
	if !errors.Is(err, ErrCheckFailed) {
		t.Fatalf("Check() error = %v, want ErrCheckFailed", err)
	}
	if !strings.Contains(err.Error(), "memory usage critical") {
		t.Errorf("Error = %q, want usage message", err.Error())
	}
}

func TestMemoryIndicator_CancelledContext(t *testing.T) {
	ind := MemoryIndicator(MemoryIndicatorConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := ind.Check(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Check() error = %v, want context.Canceled", err)
	}
}

func TestSystemMemoryIndicator(t *testing.T) {
	orig := virtualMemory
	defer func() { virtualMemory = orig }()

	tests := []struct {
		name      string
		threshold float64
		used      float64
		readErr   error
		wantErr   bool
	}{
		{name: "below threshold", threshold: 0.9, used: 40},
		{name: "at threshold", threshold: 0.9, used: 90, wantErr: true},
		{name: "invalid threshold defaults to 95%", threshold: 7, used: 94},
		{name: "read failure", threshold: 0.9, readErr: errors.New("no /proc"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			virtualMemory = func(ctx context.Context) (*mem.VirtualMemoryStat, error) {
				if tt.readErr != nil {
					return nil, tt.readErr
				}
				return &mem.VirtualMemoryStat{UsedPercent: tt.used}, nil
			}

			ind := SystemMemoryIndicator(tt.threshold)
			if ind.Name != "system_memory" {
				t.Errorf("Name = %v, want system_memory", ind.Name)
			}

			err := ind.Check(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
