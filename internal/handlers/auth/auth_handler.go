// internal/handlers/auth/auth_handler.go
package auth

import (
	"net/http"

	"quinto-service/internal/domain/auth"
	"quinto-service/internal/middleware"
	"quinto-service/internal/pkg/response"
	service "quinto-service/internal/service/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates an account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	id, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to register", err)
		return
	}

	response.Success(c, http.StatusCreated, "account created", id)
}

// Login verifies credentials and returns a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		response.FromError(c, "invalid credentials", err)
		return
	}

	response.Success(c, http.StatusOK, "logged in", result)
}

// Logout revokes the current session.
func (h *AuthHandler) Logout(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	jti := middleware.MustGetJTI(c)

	if err := h.authService.Logout(c.Request.Context(), identityID, jti); err != nil {
		response.FromError(c, "failed to log out", err)
		return
	}

	response.Success(c, http.StatusOK, "logged out", nil)
}

// LogoutAll revokes every session of the caller.
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	if err := h.authService.LogoutAll(c.Request.Context(), identityID); err != nil {
		response.FromError(c, "failed to log out", err)
		return
	}

	response.Success(c, http.StatusOK, "all sessions revoked", nil)
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	id, err := h.authService.Me(c.Request.Context(), identityID)
	if err != nil {
		response.FromError(c, "account not found", err)
		return
	}

	response.Success(c, http.StatusOK, "account", id)
}

// UpdateProfile patches the caller's profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	var req auth.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	id, err := h.authService.UpdateProfile(c.Request.Context(), identityID, &req)
	if err != nil {
		response.FromError(c, "failed to update profile", err)
		return
	}

	response.Success(c, http.StatusOK, "profile updated", id)
}
