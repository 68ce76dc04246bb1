package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/fintech/wcm/internal/infrastructure/telemetry"
)

func TestDefaultProfilingConfig(t *testing.T) {
	cfg := DefaultProfilingConfig()

	assert.True(t, cfg.Enabled)
	assert.Contains(t, cfg.SkipPaths, "/healthz")
	assert.Contains(t, cfg.SkipPaths, "/metrics")
}

func TestProfilingMiddleware_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	cfg := ProfilingConfig{
		Enabled: false,
	}

	handlerCalled := false
	r.Use(ProfilingWithConfig(cfg))
	r.GET("/test", func(c *gin.Context) {
		handlerCalled = true
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handlerCalled, "handler should be called when profiling is disabled")
}

func TestProfilingMiddleware_Enabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	handlerCalled := false
	r.Use(ProfilingWithConfig(DefaultProfilingConfig()))
	r.GET("/api/v1/companies/:id/metrics", func(c *gin.Context) {
		handlerCalled = true
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies/42/metrics", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handlerCalled, "handler should be called when profiling is enabled")
}

func TestProfilingMiddleware_SkipPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		path string
	}{
		{"healthz_exact", "/healthz"},
		{"metrics_exact", "/metrics"},
		{"normal_api_path", "/api/v1/companies/alerts"},
		{"healthz_subpath", "/healthz/check"}, // not exact match, profiled
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			cfg := DefaultProfilingConfig()

			handlerCalled := false
			r.Use(ProfilingWithConfig(cfg))
			r.GET(tt.path, func(c *gin.Context) {
				handlerCalled = true
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.True(t, handlerCalled, "handler should be called for path: %s", tt.path)
		})
	}
}

func TestExtractProfilingLabels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var labels map[string]string
	r.GET("/api/v1/companies/:id/dashboard", func(c *gin.Context) {
		labels = extractProfilingLabels(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies/42/dashboard", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.MethodGet, labels[telemetry.ProfilingLabelMethod])
	assert.Equal(t, "/api/v1/companies/:id/dashboard", labels[telemetry.ProfilingLabelRoute])
	assert.Equal(t, "companies", labels[telemetry.ProfilingLabelHandler])
}

func TestExtractHandlerFromRoute(t *testing.T) {
	testCases := []struct {
		route    string
		expected string
	}{
		{"/api/v1/companies/:id/metrics", "companies"},
		{"/api/v1/companies/:id/alerts/generate", "companies"},
		{"/api/v1/alerts/:id/read", "alerts"},
		{"/api/v1/imports/schedule/:jobId", "imports"},
		{"/healthz", "healthz"},
		{"/system/info", "system"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.route, func(t *testing.T) {
			assert.Equal(t, tc.expected, extractHandlerFromRoute(tc.route))
		})
	}
}

func TestProfilingMiddleware_UnmatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.Use(ProfilingWithConfig(DefaultProfilingConfig()))

	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	w := httptest.NewRecorder()

	// Must not panic on requests without a matched route pattern
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
