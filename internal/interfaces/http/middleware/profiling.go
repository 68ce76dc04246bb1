package middleware

import (
	"context"
	"strings"

	"github.com/fintech/wcm/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	// Enabled controls whether profiling labels are added to requests.
	Enabled bool
	// SkipPaths are paths that don't need profiling labels (e.g., health checks).
	SkipPaths []string
}

// DefaultProfilingConfig returns default profiling middleware configuration.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:   true,
		SkipPaths: []string{"/healthz", "/metrics"},
	}
}

// Profiling returns profiling middleware with default configuration.
func Profiling() gin.HandlerFunc {
	return ProfilingWithConfig(DefaultProfilingConfig())
}

// ProfilingWithConfig returns middleware that adds Pyroscope labels
// (method, route pattern, handler name) to the request context so profiles
// can be sliced per endpoint.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, skipped := skip[c.Request.URL.Path]; skipped {
			c.Next()
			return
		}

		telemetry.WithProfilingLabels(c.Request.Context(), extractProfilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// extractProfilingLabels builds the low-cardinality label set for a request.
// The route pattern is used rather than the raw path so label values stay
// bounded.
func extractProfilingLabels(c *gin.Context) map[string]string {
	labels := map[string]string{}
	if method := c.Request.Method; method != "" {
		labels[telemetry.ProfilingLabelMethod] = method
	}

	route := c.FullPath()
	if route == "" {
		return labels
	}
	labels[telemetry.ProfilingLabelRoute] = route
	if handler := extractHandlerFromRoute(route); handler != "" {
		labels[telemetry.ProfilingLabelHandler] = handler
	}
	return labels
}

// extractHandlerFromRoute derives a handler name from the route pattern.
// Example: "/api/v1/companies/:id/metrics" -> "companies"
func extractHandlerFromRoute(route string) string {
	parts := strings.Split(strings.TrimPrefix(route, "/"), "/")
	for i, part := range parts {
		if part == "api" && i+2 < len(parts) {
			return parts[i+2]
		}
	}
	if len(parts) > 0 {
		return parts[0]
	}
	return ""
}
