package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Span names.
const (
	CycleSpanName           = "health.cycle"
	IndicatorSpanNamePrefix = "health.indicator."
)

// Tracer wraps OpenTelemetry tracing with cycle and indicator spans.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartCycle starts the root span of one health cycle.
	StartCycle(ctx context.Context) (context.Context, trace.Span)

	// StartIndicator starts a span for one indicator check within a cycle.
	StartIndicator(ctx context.Context, name string) (context.Context, trace.Span)

	// EndSpan ends the span, recording err when non-nil.
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartCycle(ctx context.Context) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, CycleSpanName, trace.WithSpanKind(trace.SpanKindInternal))
}

func (t *tracerImpl) StartIndicator(ctx context.Context, name string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, IndicatorSpanNamePrefix+name,
		trace.WithAttributes(
			attribute.String("indicator.name", name),
			attribute.Bool("indicator.error", false),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("indicator.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// NopTracer returns a tracer whose spans are no-ops.
func NopTracer() Tracer {
	return &tracerImpl{tracer: tracenoop.NewTracerProvider().Tracer("noop")}
}
