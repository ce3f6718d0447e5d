package monitoring

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/exporters/autoexport"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// tracerName is the instrumentation scope name registered with OTel.
const tracerName = "medconnect-inference-operator"

// Annotations carrying a webhook's trace context to the reconciler.
const (
	annotationTraceparent   = "medconnect.io/traceparent"
	annotationTraceparentTS = "medconnect.io/traceparent-ts"
	annotationTracestate    = "medconnect.io/tracestate"
)

// traceContextMaxAge bounds how long an injected trace context is treated
// as the parent of reconcile spans.
const traceContextMaxAge = 10 * time.Minute

// Tracer is the package-level OTel tracer for the operator.
// It returns a noop tracer when no TracerProvider is registered,
// making instrumentation zero-cost in the default configuration.
var Tracer = otel.Tracer(tracerName)

// InitTracing installs a global TracerProvider exporting through the
// exporter selected by the standard OTEL_* variables. Without
// OTEL_EXPORTER_OTLP_ENDPOINT it installs nothing and returns a no-op
// shutdown function.
func InitTracing(ctx context.Context, serviceName, version string) (func(context.Context) error, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := autoexport.NewSpanExporter(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil && !errors.Is(err, resource.ErrPartialResource) {
		_ = exporter.Shutdown(ctx)
		return nil, fmt.Errorf("creating OTel resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	Tracer = otel.Tracer(tracerName)

	return tp.Shutdown, nil
}

// StartReconcileSpan starts a new span for a controller reconciliation.
// The span is annotated with the Kubernetes resource name, namespace, and kind.
// Callers must call span.End() when the operation completes.
func StartReconcileSpan(ctx context.Context, spanName, name, namespace, kind string) (context.Context, trace.Span) {
	ctx, span := Tracer.Start(ctx, spanName,
		trace.WithAttributes(
			attribute.String("k8s.resource.name", name),
			attribute.String("k8s.namespace", namespace),
			attribute.String("k8s.resource.kind", kind),
		),
	)
	return ctx, span
}

// StartChildSpan starts a child span under the current trace context.
// Use this for sub-operations within a reconciliation (e.g., ApplyBundle, UpdateStatus).
func StartChildSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	return Tracer.Start(ctx, spanName)
}

// RecordSpanError records an error on a span and sets the span status to Error.
// If err is nil, this is a no-op.
func RecordSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// InjectTraceContext writes the span context of ctx into annotations,
// together with the time of injection. Nothing is written when ctx carries
// no valid span.
func InjectTraceContext(ctx context.Context, annotations map[string]string) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return
	}
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	if tp := carrier.Get("traceparent"); tp != "" {
		annotations[annotationTraceparent] = tp
		annotations[annotationTraceparentTS] = strconv.FormatInt(time.Now().Unix(), 10)
	}
	if ts := carrier.Get("tracestate"); ts != "" {
		annotations[annotationTracestate] = ts
	}
}

// ExtractTraceContext restores a trace context written by
// InjectTraceContext. isStale reports whether the context is older than
// traceContextMaxAge or carries no usable timestamp; callers should link to
// a stale context rather than parent under it.
func ExtractTraceContext(annotations map[string]string) (ctx context.Context, isStale bool) {
	ctx = context.Background()
	tp, ok := annotations[annotationTraceparent]
	if !ok {
		return ctx, false
	}

	carrier := propagation.MapCarrier{"traceparent": tp}
	if ts := annotations[annotationTracestate]; ts != "" {
		carrier["tracestate"] = ts
	}
	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)

	injected, err := strconv.ParseInt(annotations[annotationTraceparentTS], 10, 64)
	if err != nil {
		return ctx, true
	}
	return ctx, time.Since(time.Unix(injected, 0)) > traceContextMaxAge
}

// EnrichLoggerWithTrace adds trace_id and span_id to the logger stored in
// ctx. ctx is returned unchanged when it carries no valid span.
func EnrichLoggerWithTrace(ctx context.Context) context.Context {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ctx
	}
	logger := log.FromContext(ctx).WithValues(
		"trace_id", sc.TraceID().String(),
		"span_id", sc.SpanID().String(),
	)
	return log.IntoContext(ctx, logger)
}
