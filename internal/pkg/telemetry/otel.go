// Package telemetry provides OpenTelemetry instrumentation for distributed tracing.
// Пакет telemetry предоставляет инструментацию OpenTelemetry для распределённой трассировки.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Config holds telemetry configuration.
// Config содержит конфигурацию телеметрии.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	Enabled        bool
	SampleRatio    float64 // Share of root traces kept, 0..1 / Доля сохраняемых корневых трасс, 0..1
}

// DefaultConfig returns default telemetry configuration.
// DefaultConfig возвращает конфигурацию телеметрии по умолчанию.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "weather-api",
		ServiceVersion: "1.0.0",
		Environment:    "development",
		OTLPEndpoint:   "localhost:4317",
		Enabled:        false,
		SampleRatio:    1,
	}
}

// Provider wraps OpenTelemetry providers.
// Provider оборачивает провайдеры OpenTelemetry.
type Provider struct {
	TracerProvider *sdktrace.TracerProvider
	Tracer         trace.Tracer
}

// InitTelemetry initializes OpenTelemetry with the given configuration.
// InitTelemetry инициализирует OpenTelemetry с заданной конфигурацией.
//
// When disabled, spans are still created (the dispatcher and handlers read
// them) but nothing is exported.
// В выключенном состоянии span всё равно создаются (их читают диспетчер и
// обработчики), но ничего не экспортируется.
func InitTelemetry(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		tp := sdktrace.NewTracerProvider()
		otel.SetTracerProvider(tp)
		return &Provider{
			TracerProvider: tp,
			Tracer:         tp.Tracer(cfg.ServiceName),
		}, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(Sampler(cfg.SampleRatio)),
	)

	// Set global providers / Устанавливаем глобальные провайдеры
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Provider{
		TracerProvider: tp,
		Tracer:         tp.Tracer(cfg.ServiceName),
	}, nil
}

// Sampler returns a parent-based sampler keeping ratio of root traces.
// Sampler возвращает sampler на основе родителя, сохраняющий долю ratio корневых трасс.
//
// A ratio of 1 or more samples everything, 0 or less samples nothing.
// Доля 1 и больше сэмплирует всё, 0 и меньше не сэмплирует ничего.
func Sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case ratio <= 0:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

// Shutdown gracefully shuts down the telemetry provider.
// Shutdown корректно завершает провайдер телеметрии.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.TracerProvider != nil {
		return p.TracerProvider.Shutdown(ctx)
	}
	return nil
}

// StartSpan starts a new span.
// StartSpan начинает новый span.
func (p *Provider) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return p.Tracer.Start(ctx, name, opts...)
}

// SpanFromContext returns the current span from context.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// AddSpanAttributes adds attributes to the current span.
func AddSpanAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).SetAttributes(attrs...)
}

// AddSpanEvent adds an event to the current span.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(attrs...))
}

// RecordError records an error in the current span.
func RecordError(ctx context.Context, err error) {
	trace.SpanFromContext(ctx).RecordError(err)
}

// Common attribute keys.
// Общие ключи атрибутов.
var (
	AttrAPIVersion   = attribute.Key("api.version")
	AttrDeprecated   = attribute.Key("api.version.deprecated")
	AttrOutcome      = attribute.Key("api.version.outcome")
	AttrRoute        = attribute.Key("api.route")
	AttrRequestID    = attribute.Key("http.request_id")
	AttrDocGroup     = attribute.Key("docs.group")
	AttrForecastDays = attribute.Key("forecast.days")
	AttrForecastCity = attribute.Key("forecast.city")
)
