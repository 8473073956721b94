package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abelkristv/magang-sub001/internal/service"
)

// unmatchedRoute labels requests no route handled, keeping raw paths out of
// the label set.
const unmatchedRoute = "unmatched"

// Metrics records duration and status per route pattern. Scrapes of
// scrapePath are not recorded.
func Metrics(metricsSvc *service.MetricsService, scrapePath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil || (scrapePath != "" && c.Request.URL.Path == scrapePath) {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
