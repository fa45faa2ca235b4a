package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/johnolamide/echo-mcp-server/internal/apperr"
	"github.com/johnolamide/echo-mcp-server/internal/domain"
	"github.com/johnolamide/echo-mcp-server/internal/middleware"
)

// ServiceHandler exposes the service registry. Reads are open to any
// authenticated user; writes sit behind the admin gate in the router.
type ServiceHandler struct {
	Registry domain.ServiceRegistry
}

// NewServiceHandler creates a new ServiceHandler.
func NewServiceHandler(registry domain.ServiceRegistry) *ServiceHandler {
	return &ServiceHandler{Registry: registry}
}

// List handles GET /services.
func (h *ServiceHandler) List(c *gin.Context) {
	filter := domain.ServiceFilter{
		Type:            c.Query("type"),
		IncludeInactive: c.Query("include_inactive") == "true",
		Limit:           intQuery(c, "limit", 50),
		Offset:          intQuery(c, "offset", 0),
	}
	list, err := h.Registry.List(filter)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get handles GET /services/:service_id. Inactive entries are still
// retrievable by id.
func (h *ServiceHandler) Get(c *gin.Context) {
	id, err := pathID(c, "service_id")
	if err != nil {
		apperr.Write(c, err)
		return
	}
	svc, err := h.Registry.Get(id)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

// Create handles POST /services (admin).
func (h *ServiceHandler) Create(c *gin.Context) {
	var req domain.ServiceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Write(c, apperr.Validation("Invalid request body", err.Error()))
		return
	}
	svc, err := h.Registry.Create(middleware.UserID(c), req)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

// Update handles PUT /services/:service_id (admin).
func (h *ServiceHandler) Update(c *gin.Context) {
	id, err := pathID(c, "service_id")
	if err != nil {
		apperr.Write(c, err)
		return
	}
	var req domain.ServiceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Write(c, apperr.Validation("Invalid request body", err.Error()))
		return
	}
	svc, err := h.Registry.Update(id, req)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

// Delete handles DELETE /services/:service_id (admin).
func (h *ServiceHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "service_id")
	if err != nil {
		apperr.Write(c, err)
		return
	}
	if err := h.Registry.Delete(id); err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted"})
}
