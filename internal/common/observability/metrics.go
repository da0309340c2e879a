package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

type Logger interface {
	Warn(msg string, fields map[string]interface{})
}

type Observability struct {
	serviceName     string
	meterProvider   *metric.MeterProvider
	tracerProvider  *sdktrace.TracerProvider
	meter           otelmetric.Meter
	onboardCounter  otelmetric.Int64Counter
	onboardDuration otelmetric.Float64Histogram
}

// New registers the global tracer provider, so request spans carry trace
// ids for log correlation, and a meter provider exported through the
// default Prometheus registry. On exporter failure a no-op meter is used.
func New(serviceName string, log Logger) *Observability {
	res := resource.NewSchemaless(semconv.ServiceNameKey.String(serviceName))
	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithResource(res))
	otel.SetTracerProvider(tracerProvider)

	exporter, err := prometheus.New()
	if err != nil {
		if log != nil {
			log.Warn("failed to create prometheus exporter", map[string]interface{}{"error": err.Error()})
		}
		return &Observability{
			serviceName:    serviceName,
			tracerProvider: tracerProvider,
			meter:          noop.NewMeterProvider().Meter(serviceName),
		}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
	otel.SetMeterProvider(provider)

	o := newWithMeter(serviceName, provider.Meter(serviceName))
	o.meterProvider = provider
	o.tracerProvider = tracerProvider
	return o
}

func newWithMeter(serviceName string, meter otelmetric.Meter) *Observability {
	onboardCounter, _ := meter.Int64Counter(
		"onboarding.runs",
		otelmetric.WithDescription("Number of onboarding pipeline runs"),
	)

	onboardDuration, _ := meter.Float64Histogram(
		"onboarding.duration",
		otelmetric.WithDescription("Onboarding pipeline duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		serviceName:     serviceName,
		meter:           meter,
		onboardCounter:  onboardCounter,
		onboardDuration: onboardDuration,
	}
}

// ServiceName is the name used for meters and tracing middleware.
func (o *Observability) ServiceName() string {
	return o.serviceName
}

// Meter returns the service meter, never nil.
func (o *Observability) Meter() otelmetric.Meter {
	if o == nil || o.meter == nil {
		return noop.NewMeterProvider().Meter("console")
	}
	return o.meter
}

// RecordOnboarding records one pipeline run; status is "completed" or the
// name of the step that failed.
func (o *Observability) RecordOnboarding(ctx context.Context, duration time.Duration, status string) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("status", status))
	if o.onboardCounter != nil {
		o.onboardCounter.Add(ctx, 1, attrs)
	}
	if o.onboardDuration != nil {
		o.onboardDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
}
