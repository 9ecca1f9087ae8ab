package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderProcessingTime reports how long the server spent on the request.
const HeaderProcessingTime = "X-Processing-Time"

// timingWriter injects the processing-time header just before the first
// byte of the response is written, since headers are sealed at that point.
type timingWriter struct {
	gin.ResponseWriter
	start time.Time
}

func (w *timingWriter) setHeader() {
	if !w.Written() {
		w.Header().Set(HeaderProcessingTime, time.Since(w.start).String())
	}
}

func (w *timingWriter) WriteHeader(code int) {
	w.setHeader()
	w.ResponseWriter.WriteHeader(code)
}

func (w *timingWriter) Write(b []byte) (int, error) {
	w.setHeader()
	return w.ResponseWriter.Write(b)
}

func (w *timingWriter) WriteString(s string) (int, error) {
	w.setHeader()
	return w.ResponseWriter.WriteString(s)
}

// Timing measures endpoint dispatch and logs at increasing severity as the
// elapsed time crosses the slow and then the critical threshold. The
// measurement completes even when a later stage panics; the boundary above
// this stage recovers afterwards.
func Timing(log *slog.Logger, slow, critical time.Duration) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		tw := &timingWriter{ResponseWriter: c.Writer, start: start}
		c.Writer = tw

		defer func() {
			elapsed := time.Since(start)
			args := []any{
				"correlation_id", CorrelationID(c),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"elapsed", elapsed,
			}
			switch {
			case elapsed >= critical:
				log.Error("critically slow request", args...)
			case elapsed >= slow:
				log.Warn("slow request", args...)
			default:
				log.Debug("request timed", args...)
			}
		}()

		c.Next()
	}
}
