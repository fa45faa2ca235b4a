package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/johnolamide/echo-mcp-server/internal/apperr"
	"github.com/johnolamide/echo-mcp-server/internal/domain"
	"github.com/johnolamide/echo-mcp-server/internal/middleware"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	Service domain.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service domain.AuthService) *AuthHandler {
	return &AuthHandler{Service: service}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Write(c, apperr.Validation("Invalid request body", err.Error()))
		return
	}
	user, err := h.Service.Register(req)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// RegisterAdmin handles POST /auth/create-admin. The admin secret is part
// of the payload so the route itself stays public.
func (h *AuthHandler) RegisterAdmin(c *gin.Context) {
	var req domain.AdminRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Write(c, apperr.Validation("Invalid request body", err.Error()))
		return
	}
	user, err := h.Service.CreateAdmin(req)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Write(c, apperr.Validation("Invalid request body", err.Error()))
		return
	}
	resp, err := h.Service.Login(req)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req domain.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Write(c, apperr.Validation("Invalid request body", err.Error()))
		return
	}
	resp, err := h.Service.Refresh(req.RefreshToken)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout handles POST /auth/logout, revoking the presented access token.
func (h *AuthHandler) Logout(c *gin.Context) {
	raw, _ := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if err := h.Service.Logout(raw); err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.Service.GetUser(middleware.UserID(c))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe handles PUT /auth/me.
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Write(c, apperr.Validation("Invalid request body", err.Error()))
		return
	}
	user, err := h.Service.UpdateProfile(middleware.UserID(c), req)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
