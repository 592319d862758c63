package middleware

import (
	"strconv"
	"time"

	"snapgram/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Instrument records request duration by route template, so ids in paths do not explode the label set.
func Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
