package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stockledger/internal/core/trace"
)

// HeaderRequestID carries the client-supplied request id.
const HeaderRequestID = "X-Request-ID"

// Trace middleware attaches a request id to the context.
// Extracts the incoming header or generates a fresh one.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := trace.WithTrace(c.Request.Context(), &trace.Trace{RequestID: requestID})
		c.Request = c.Request.WithContext(ctx)

		c.Set("request_id", requestID)
		c.Header(HeaderRequestID, requestID)

		c.Next()
	}
}
