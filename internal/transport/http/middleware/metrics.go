package middleware

import (
	"strconv"
	"time"

	"github.com/ErlanBelekov/learning-management-system/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records latency, count and in-flight requests per route. Requests
// matching no route are labelled path="unmatched".
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := []string{c.Request.Method, path, strconv.Itoa(c.Writer.Status())}

		metrics.HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(labels...).Inc()
	}
}
