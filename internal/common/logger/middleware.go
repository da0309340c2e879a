package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// GinMiddleware logs one line per request through the Logger interface.
// Mount it inside the tracing middleware to get trace ids.
func GinMiddleware(log Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		rawQuery := c.Request.URL.RawQuery

		c.Next()

		fields := map[string]interface{}{
			"method":    c.Request.Method,
			"path":      path,
			"status":    c.Writer.Status(),
			"latencyMs": time.Since(start).Milliseconds(),
			"clientIp":  c.ClientIP(),
		}
		if rawQuery != "" {
			fields["query"] = rawQuery
		}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.IsValid() {
			fields["traceId"] = sc.TraceID().String()
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("request completed", fields)
		case status >= 400:
			log.Warn("request completed", fields)
		default:
			log.Info("request completed", fields)
		}
	}
}
