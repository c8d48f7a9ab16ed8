package middleware

import (
	"strconv"
	"time"

	"court-booking/internal/infra/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware labels by route template so path ids do not explode cardinality.
func MetricsMiddleware(rec *metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		rec.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
