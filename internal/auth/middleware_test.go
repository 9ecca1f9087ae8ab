package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"Tasker/internal/domain"
	"Tasker/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(tm *TokenManager) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Correlation())
	g := r.Group("", RequireAuth(tm))
	g.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user": middleware.Principal(c),
			"role": middleware.Role(c),
			"id":   middleware.UserID(c),
		})
	})
	g.DELETE("/admin-only", RequireRole(domain.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func get(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	r := protectedRouter(NewTokenManager(testConfig()))

	w := get(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, http.MethodGet, "/me", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthEstablishesPrincipal(t *testing.T) {
	tm := NewTokenManager(testConfig())
	r := protectedRouter(tm)

	token, _, err := tm.Issue(domain.User{ID: 3, Username: "carol", Role: domain.RoleAdmin})
	require.NoError(t, err)

	w := get(r, http.MethodGet, "/me", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user":"carol"`)
	assert.Contains(t, w.Body.String(), `"role":"Admin"`)
	assert.Contains(t, w.Body.String(), `"id":3`)
}

func TestRequireRole(t *testing.T) {
	tm := NewTokenManager(testConfig())
	r := protectedRouter(tm)

	userToken, _, err := tm.Issue(domain.User{ID: 1, Username: "alice", Role: domain.RoleUser})
	require.NoError(t, err)
	adminToken, _, err := tm.Issue(domain.User{ID: 2, Username: "boss", Role: domain.RoleAdmin})
	require.NoError(t, err)

	w := get(r, http.MethodDelete, "/admin-only", userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = get(r, http.MethodDelete, "/admin-only", adminToken)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
