package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LimitBody stops reading the request body after n bytes. Reads past the limit fail
// with *http.MaxBytesError.
func LimitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
