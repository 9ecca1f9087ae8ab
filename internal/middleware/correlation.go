package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Correlation assigns a correlation id to every request: the inbound header
// when present and non-blank, otherwise a freshly generated short id. The id
// is stored in the request context and echoed in the response header. This
// stage never fails and always calls through.
func Correlation() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderCorrelationID))
		if id == "" {
			id = uuid.NewString()[:8]
		}
		c.Set(ctxKeyCorrelationID, id)
		c.Header(HeaderCorrelationID, id)
		c.Next()
	}
}
