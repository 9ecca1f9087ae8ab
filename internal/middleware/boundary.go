package middleware

import (
	"errors"
	"log/slog"

	"Tasker/internal/apperr"

	"github.com/gin-gonic/gin"
)

// Boundary is the exception boundary. Any panic or classified error bubbling
// out of later stages is intercepted here exactly once, logged with the
// correlation id, and mapped to the uniform error body. It never re-raises.
//
// NotFound returned by the service layer is a normal value translated by
// handlers; it does not pass through here.
func Boundary(log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					"correlation_id", CorrelationID(c),
					"path", c.Request.URL.Path,
					"panic", r,
				)
				if !c.Writer.Written() {
					Abort(c, apperr.KindInternal, "An unexpected error occurred")
				}
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		kind := apperr.KindOf(err)
		log.Error("request failed",
			"correlation_id", CorrelationID(c),
			"path", c.Request.URL.Path,
			"status", kind.Status(),
			"error", err,
		)
		Abort(c, kind, clientMessage(err, kind))
	}
}

// clientMessage picks the message shown to the caller. Internal failures get
// a generic message only; the log line carries the real cause.
func clientMessage(err error, kind apperr.Kind) string {
	if kind == apperr.KindInternal {
		return "An unexpected error occurred"
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "An unexpected error occurred"
}
