package handlers

import (
	"errors"
	"net/http"

	"Tasker/internal/apperr"
	"Tasker/internal/auth"
	"Tasker/internal/dto"
	"Tasker/internal/middleware"
	"Tasker/internal/service"
	"Tasker/internal/validation"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles login.
type AuthHandler struct {
	userSvc *service.UserService
	tokens  *auth.TokenManager
}

func NewAuthHandler(userSvc *service.UserService, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{userSvc: userSvc, tokens: tokens}
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  map[string][]string
// @Failure      401   {object}  dto.ErrorBody
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, apperr.KindInvalidArgument, "Request body must be valid JSON")
		return
	}

	// On validation failure no credential check is attempted.
	if res := validation.LoginRules().Evaluate(req); !res.IsValid() {
		middleware.AbortValidation(c, res.ByField())
		return
	}

	user, err := h.userSvc.VerifyCredentials(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			middleware.Abort(c, apperr.KindUnauthenticated, "Invalid username or password")
			return
		}
		_ = c.Error(err)
		c.Abort()
		return
	}

	token, expiration, err := h.tokens.Issue(user)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:      token,
		Expiration: expiration,
		Username:   user.Username,
		Role:       user.Role,
	})
}
