// Command healthmon runs a health monitor over the process's own memory and
// serves its snapshot over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iu7726/health-monitor/health"
	"github.com/iu7726/health-monitor/observe"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "healthmon:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observe.NewObserver(ctx, cfg.Observe(version))
	if err != nil {
		return fmt.Errorf("observer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()

	inst, err := observe.InstrumentsFromObserver(obs)
	if err != nil {
		return fmt.Errorf("instruments: %w", err)
	}
	logger := inst.Logger

	mon := health.NewMonitor(cfg.Monitor(), health.WithInstruments(inst))
	mon.Register(health.MemoryIndicator(health.MemoryIndicatorConfig{Threshold: cfg.MemoryThreshold})).
		Register(health.SystemMemoryIndicator(cfg.HostThreshold))
	mon.Start()
	defer mon.Stop()

	mux := http.NewServeMux()
	health.RegisterHandlers(mux, mon)
	mux.Handle("/metrics", obs.MetricsHandler())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "healthmon listening",
			observe.Field{Key: "addr", Value: cfg.Addr},
			observe.Field{Key: "interval", Value: cfg.Interval.String()},
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
