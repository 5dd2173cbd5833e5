package middleware

import (
	"github.com/ErlanBelekov/learning-management-system/internal/requestid"
	"github.com/gin-gonic/gin"
)

// RequestID keeps an incoming X-Request-ID or generates one, and echoes it
// in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if id := c.GetHeader(requestid.Header); id != "" {
			ctx = requestid.WithRequestID(ctx, id)
		}
		ctx, id := requestid.Ensure(ctx)

		c.Request = c.Request.WithContext(ctx)
		c.Header(requestid.Header, id)
		c.Next()
	}
}
