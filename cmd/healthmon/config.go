package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/iu7726/health-monitor/health"
	"github.com/iu7726/health-monitor/observe"
)

// Config is the demo daemon's configuration. Precedence: flags > file > defaults.
type Config struct {
	Addr            string        `yaml:"addr"`
	Interval        time.Duration `yaml:"interval"`
	Timeout         time.Duration `yaml:"timeout"`
	LogLevel        string        `yaml:"log_level"`
	MetricsExporter string        `yaml:"metrics_exporter"`
	TracingExporter string        `yaml:"tracing_exporter"`
	MemoryThreshold float64       `yaml:"memory_threshold"`
	HostThreshold   float64       `yaml:"host_memory_threshold"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		Interval:        health.DefaultInterval,
		Timeout:         health.DefaultTimeout,
		LogLevel:        "info",
		MetricsExporter: "prometheus",
		TracingExporter: "none",
		MemoryThreshold: 0.95,
		HostThreshold:   0.95,
	}
}

// LoadConfig parses args, reads the optional --config file (with ${VAR}
// expansion), and applies explicitly set flags on top.
func LoadConfig(args []string) (Config, error) {
	cfg := DefaultConfig()

	fs := pflag.NewFlagSet("healthmon", pflag.ContinueOnError)
	path := fs.String("config", "", "Path to YAML configuration file")
	addr := fs.String("addr", cfg.Addr, "HTTP listen address")
	interval := fs.Duration("interval", cfg.Interval, "Time between health check cycles")
	timeout := fs.Duration("timeout", cfg.Timeout, "Default per-indicator timeout")
	logLevel := fs.String("log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	metrics := fs.String("metrics-exporter", cfg.MetricsExporter, "Metrics exporter: prometheus, otlp, stdout, none")
	tracing := fs.String("tracing-exporter", cfg.TracingExporter, "Tracing exporter: otlp, stdout, none")
	memory := fs.Float64("memory-threshold", cfg.MemoryThreshold, "Go heap ratio at which the memory indicator fails")
	host := fs.Float64("host-memory-threshold", cfg.HostThreshold, "Host memory ratio at which the system_memory indicator fails")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *path != "" {
		data, err := os.ReadFile(*path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		body, err := expandConfigEnv(string(data))
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal([]byte(body), &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", *path, err)
		}
	}

	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "interval":
			cfg.Interval = *interval
		case "timeout":
			cfg.Timeout = *timeout
		case "log-level":
			cfg.LogLevel = *logLevel
		case "metrics-exporter":
			cfg.MetricsExporter = *metrics
		case "tracing-exporter":
			cfg.TracingExporter = *tracing
		case "memory-threshold":
			cfg.MemoryThreshold = *memory
		case "host-memory-threshold":
			cfg.HostThreshold = *host
		}
	})

	return cfg, nil
}

// Observe builds the observer configuration.
func (c Config) Observe(version string) observe.Config {
	return observe.Config{
		ServiceName: "healthmon",
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   c.TracingExporter != "none",
			Exporter:  c.TracingExporter,
			SamplePct: 1.0,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.MetricsExporter != "none",
			Exporter: c.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   c.LogLevel,
		},
	}
}

// Monitor builds the monitor configuration.
func (c Config) Monitor() health.MonitorConfig {
	return health.MonitorConfig{Interval: c.Interval, Timeout: c.Timeout}
}
