// internal/middleware/metrics.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/artledger/registry-backend/internal/metrics"
)

// RequestMetrics records request durations labeled by route template.
// Unmatched paths are skipped so 404 scans cannot inflate cardinality.
func RequestMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			return
		}

		m.ObserveRequest(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
