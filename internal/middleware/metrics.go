package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vqdung71104/student-management-sub001/internal/service"
)

const unmatchedRoute = "unmatched"

var unobservedRoutes = map[string]struct{}{
	"/metrics": {},
	"/health":  {},
	"/ready":   {},
}

// Metrics records latency and status per route template. Probe and scrape endpoints are skipped,
// and requests that match no route share a single label.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		route := c.FullPath()
		if _, skip := unobservedRoutes[route]; skip {
			c.Next()
			return
		}
		if route == "" {
			route = unmatchedRoute
		}

		start := time.Now()
		c.Next()
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
