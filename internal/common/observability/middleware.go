package observability

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// NewMetricMiddleware records latency and request counters per route.
func NewMetricMiddleware(meter metric.Meter) gin.HandlerFunc {
	durationHistogram, _ := meter.Int64Histogram(
		"http.server.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("The latency of HTTP requests."),
	)

	requestCounter, _ := meter.Int64Counter(
		"http.server.requests_total",
		metric.WithDescription("The total number of HTTP requests."),
	)

	errorCounter, _ := meter.Int64Counter(
		"http.server.error_requests_total",
		metric.WithDescription("The total number of failed HTTP requests."),
	)

	responseSizeHistogram, _ := meter.Int64Histogram(
		"http.server.response_size_bytes",
		metric.WithUnit("bytes"),
		metric.WithDescription("The size of HTTP responses in bytes."),
	)

	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		statusCode := c.Writer.Status()

		attrs := metric.WithAttributes(
			semconv.HTTPRouteKey.String(route),
			semconv.HTTPMethodKey.String(c.Request.Method),
			semconv.HTTPStatusCodeKey.Int(statusCode),
		)
		ctx := c.Request.Context()

		durationHistogram.Record(ctx, time.Since(startTime).Milliseconds(), attrs)
		requestCounter.Add(ctx, 1, attrs)
		if size := c.Writer.Size(); size > 0 {
			responseSizeHistogram.Record(ctx, int64(size), attrs)
		}
		if statusCode >= 500 {
			errorCounter.Add(ctx, 1, attrs)
		}
	}
}
