// Package middleware provides HTTP middleware for the working capital engine.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength caps request IDs copied from inbound headers.
const MaxRequestIDLength = 128

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	// ServiceName is the name of the service for trace identification.
	ServiceName string
	// Enabled controls whether tracing is active.
	Enabled bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{ServiceName: "wcm-engine", Enabled: true}
}

// Tracing returns OpenTelemetry tracing middleware with default configuration.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig wraps otelgin so every request gets a server span named
// "METHOD route_pattern", then tags the span with the request ID.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	otelMiddleware := otelgin.Middleware(cfg.ServiceName)
	return func(c *gin.Context) {
		otelMiddleware(c)
		enrichSpanWithAttributes(c, trace.SpanFromContext(c.Request.Context()))
	}
}

// enrichSpanWithAttributes tags a recording span with the request ID.
func enrichSpanWithAttributes(c *gin.Context, span trace.Span) {
	if !span.IsRecording() {
		return
	}
	if requestID := requestIDForTracing(c); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}
}

// requestIDForTracing prefers the ID placed in the gin context by the
// RequestID middleware and falls back to the inbound header, truncated to
// MaxRequestIDLength.
func requestIDForTracing(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	headerID := c.GetHeader("X-Request-ID")
	if len(headerID) > MaxRequestIDLength {
		headerID = headerID[:MaxRequestIDLength]
	}
	return headerID
}

// TracingAttributeInjector injects the request ID into the current span.
// Place it after both the Tracing and RequestID middleware in the chain.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		enrichSpanWithAttributes(c, trace.SpanFromContext(c.Request.Context()))
		c.Next()
	}
}

// SpanErrorMarker marks the request span as errored on 4xx/5xx responses.
// Place it after the Tracing middleware in the chain.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}

		span.SetStatus(codes.Error, statusErrorMessage(status))
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}

func statusErrorMessage(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "Internal Server Error"
	case status == http.StatusNotFound:
		return "Not Found"
	default:
		return "Client Error"
	}
}
