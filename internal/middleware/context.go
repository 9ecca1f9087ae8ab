// Package middleware implements the request-processing pipeline: correlation
// assignment, the exception boundary, fixed-window rate limiting and
// performance timing. Stages run in registration order on the way in and in
// reverse on the way out.
package middleware

import (
	"net/http"
	"time"

	"Tasker/internal/apperr"
	"Tasker/internal/dto"

	"github.com/gin-gonic/gin"
)

const (
	// HeaderCorrelationID carries the per-request correlation id in both
	// directions.
	HeaderCorrelationID = "X-Correlation-ID"

	ctxKeyCorrelationID = "correlation_id"
	ctxKeyPrincipal     = "principal"
	ctxKeyRole          = "role"
	ctxKeyUserID        = "user_id"
)

// CorrelationID returns the correlation id assigned to this request, or ""
// if the correlation middleware has not run.
func CorrelationID(c *gin.Context) string {
	return c.GetString(ctxKeyCorrelationID)
}

// SetPrincipal records the authenticated identity for later stages.
func SetPrincipal(c *gin.Context, userID int64, username, role string) {
	c.Set(ctxKeyUserID, userID)
	c.Set(ctxKeyPrincipal, username)
	c.Set(ctxKeyRole, role)
}

// Principal returns the authenticated username, or "" before the auth gate.
func Principal(c *gin.Context) string {
	return c.GetString(ctxKeyPrincipal)
}

// Role returns the authenticated role, or "".
func Role(c *gin.Context) string {
	return c.GetString(ctxKeyRole)
}

// UserID returns the authenticated user id, or 0.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(ctxKeyUserID)
}

// Abort writes the uniform error body for the given kind and stops the
// chain. Used by stages that handle their own failures (rate limiter, auth
// gate) as well as by the exception boundary.
func Abort(c *gin.Context, kind apperr.Kind, message string) {
	status := kind.Status()
	c.AbortWithStatusJSON(status, dto.ErrorBody{Error: dto.ErrorDetail{
		Message:       message,
		CorrelationID: CorrelationID(c),
		Timestamp:     time.Now().UTC(),
		StatusCode:    status,
	}})
}

// AbortValidation writes the field-error 400 body used for validation
// failures: {field: [messages]}.
func AbortValidation(c *gin.Context, byField map[string][]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, byField)
}
