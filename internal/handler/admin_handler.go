package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/johnolamide/echo-mcp-server/internal/apperr"
	"github.com/johnolamide/echo-mcp-server/internal/domain"
)

// AdminHandler exposes user management. The whole group is mounted behind
// Auth plus AdminOnly.
type AdminHandler struct {
	Service domain.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service domain.AdminService) *AdminHandler {
	return &AdminHandler{Service: service}
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	filter := domain.UserFilter{
		ActiveOnly:   c.Query("active_only") == "true",
		VerifiedOnly: c.Query("verified_only") == "true",
		AdminOnly:    c.Query("admin_only") == "true",
		Search:       c.Query("search"),
		Limit:        intQuery(c, "limit", 50),
		Offset:       intQuery(c, "offset", 0),
	}
	list, err := h.Service.ListUsers(filter)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetUser handles GET /admin/users/:user_id.
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := pathID(c, "user_id")
	if err != nil {
		apperr.Write(c, err)
		return
	}
	detail, err := h.Service.GetUserDetail(id)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdateUserFlags handles PATCH /admin/users/:user_id.
func (h *AdminHandler) UpdateUserFlags(c *gin.Context) {
	id, err := pathID(c, "user_id")
	if err != nil {
		apperr.Write(c, err)
		return
	}
	var req domain.UpdateUserFlagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Write(c, apperr.Validation("Invalid request body", err.Error()))
		return
	}
	user, err := h.Service.UpdateUserFlags(id, req)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
