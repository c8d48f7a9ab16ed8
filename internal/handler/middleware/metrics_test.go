//go:build unit

package middleware_test

import (
	"net/http"
	"strings"
	"testing"

	"court-booking/internal/handler/middleware"
	"court-booking/internal/infra/metrics"
	"court-booking/internal/pkg/config"
	"court-booking/internal/testutil/httptest"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsMiddleware_LabelsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := metrics.NewRecorder()
	router := gin.New()
	router.Use(middleware.MetricsMiddleware(rec))
	router.GET("/api/bookings/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	httptest.PerformRequest(t, router, http.MethodGet, "/api/bookings/1", nil, "")
	httptest.PerformRequest(t, router, http.MethodGet, "/api/bookings/2", nil, "")
	httptest.PerformRequest(t, router, http.MethodGet, "/nowhere", nil, "")

	expected := `
# HELP court_booking_http_requests_total Total number of HTTP requests
# TYPE court_booking_http_requests_total counter
court_booking_http_requests_total{method="GET",path="/api/bookings/:id",status="204"} 2
court_booking_http_requests_total{method="GET",path="unmatched",status="404"} 1
`
	err := testutil.GatherAndCompare(rec.Registry(), strings.NewReader(expected), "court_booking_http_requests_total")
	require.NoError(t, err)
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := middleware.NewLogger(config.NewTestConfig().Log)
	router := gin.New()
	router.Use(logger.LoggingMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetRequestID(c))
	})

	t.Run("generated when absent", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/ping", nil, "")
		id := rec.Header().Get("X-Request-ID")
		assert.NotEmpty(t, id)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("propagated from the caller", func(t *testing.T) {
		rec := httptest.PerformRequestWithHeaders(t, router, http.MethodGet, "/ping", nil, "", map[string]string{"X-Request-ID": "upstream-42"})
		assert.Equal(t, "upstream-42", rec.Header().Get("X-Request-ID"))
		assert.Equal(t, "upstream-42", rec.Body.String())
	})
}
