package auth

import (
	"strconv"
	"strings"

	"Tasker/internal/apperr"
	"Tasker/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RequireAuth returns a middleware that establishes identity from a bearer
// token. Missing, malformed, expired or otherwise invalid tokens abort with
// 401; valid tokens record the principal for later stages and handlers.
func RequireAuth(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			middleware.Abort(c, apperr.KindUnauthenticated, "A valid bearer token is required")
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")
		claims, err := tm.Validate(raw)
		if err != nil {
			middleware.Abort(c, apperr.KindUnauthenticated, "Invalid or expired token")
			return
		}
		userID, _ := strconv.ParseInt(claims.Subject, 10, 64)
		middleware.SetPrincipal(c, userID, claims.Username, claims.Role)
		c.Next()
	}
}

// RequireRole gates a route on the authenticated role. A valid token with
// the wrong role aborts with 403.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if middleware.Role(c) != role {
			middleware.Abort(c, apperr.KindPermissionDenied, "Insufficient permissions")
			return
		}
		c.Next()
	}
}
