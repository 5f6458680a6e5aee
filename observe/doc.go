// Package observe provides the telemetry primitives the health monitor reports
// through: a structured logger used as the diagnostic sink, OpenTelemetry
// metrics for cycles and indicators, and cycle/indicator tracing spans.
//
// It is a pure instrumentation library: no scheduling and no transport beyond
// exporter setup and the Prometheus scrape handler.
package observe
