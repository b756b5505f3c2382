// Package tracing wires OpenTelemetry for the syncer. Spans are emitted
// around each DeltaStrategy phase so a sync run's timeline is inspectable
// even though the CLI itself is a one-shot process; the parser emits no
// spans.
package tracing

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/envutil"
	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/logger"
)

type Config struct {
	ServiceName string
	Environment string
	Version     string
}

var (
	initOnce      sync.Once
	traceShutdown func(context.Context) error
)

// Init sets up the global tracer provider. When OTEL_ENABLED is unset or
// false it still installs a no-op-equivalent provider with a zero sample
// ratio, so instrumented code never needs a feature-flag check at the
// call site.
func Init(ctx context.Context, log *logger.Logger, cfg Config) func(context.Context) error {
	initOnce.Do(func() {
		serviceName := strings.TrimSpace(cfg.ServiceName)
		if serviceName == "" {
			serviceName = "umls-graph-syncer"
		}

		res, err := resource.New(ctx,
			resource.WithAttributes(
				semconv.ServiceNameKey.String(serviceName),
				semconv.ServiceVersionKey.String(strings.TrimSpace(cfg.Version)),
				attribute.String("deployment.environment", strings.TrimSpace(cfg.Environment)),
			),
		)
		if err != nil && log != nil {
			log.Warn("otel resource init failed (continuing)", "error", err)
		}

		var tp *sdktrace.TracerProvider
		if enabled() {
			exp, expErr := stdouttrace.New(stdouttrace.WithPrettyPrint())
			if expErr != nil {
				if log != nil {
					log.Warn("otel exporter init failed, tracing disabled", "error", expErr)
				}
				tp = sdktrace.NewTracerProvider(sdktrace.WithResource(res))
			} else {
				tp = sdktrace.NewTracerProvider(
					sdktrace.WithBatcher(exp, sdktrace.WithBatchTimeout(5*time.Second)),
					sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio()))),
					sdktrace.WithResource(res),
				)
			}
		} else {
			tp = sdktrace.NewTracerProvider(
				sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0))),
				sdktrace.WithResource(res),
			)
		}

		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
		traceShutdown = tp.Shutdown
		if log != nil {
			log.Info("tracing initialized", "service", serviceName, "enabled", enabled())
		}
	})
	return traceShutdown
}

func enabled() bool {
	return envutil.Bool("OTEL_ENABLED", false)
}

func sampleRatio() float64 {
	v := envutil.String("OTEL_SAMPLER_RATIO", "0.1")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0.1
	}
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Tracer returns the named tracer from the global provider, a thin
// convenience so callers don't import go.opentelemetry.io/otel directly.
func Tracer(name string) func(ctx context.Context, spanName string) (context.Context, func()) {
	tr := otel.Tracer(name)
	return func(ctx context.Context, spanName string) (context.Context, func()) {
		ctx, span := tr.Start(ctx, spanName)
		return ctx, func() { span.End() }
	}
}
