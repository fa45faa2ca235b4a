package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/johnolamide/echo-mcp-server/internal/apperr"
	"github.com/johnolamide/echo-mcp-server/internal/domain"
	"github.com/johnolamide/echo-mcp-server/internal/middleware"
)

// ChatHandler handles the REST side of direct messaging.
type ChatHandler struct {
	Service  domain.ChatService
	Presence domain.Presence
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(service domain.ChatService, presence domain.Presence) *ChatHandler {
	return &ChatHandler{Service: service, Presence: presence}
}

// Send handles POST /chat/send.
func (h *ChatHandler) Send(c *gin.Context) {
	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Write(c, apperr.Validation("Invalid request body", err.Error()))
		return
	}
	msg, err := h.Service.Send(middleware.UserID(c), req)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// History handles GET /chat/history/:other_user_id.
func (h *ChatHandler) History(c *gin.Context) {
	otherID, err := pathID(c, "other_user_id")
	if err != nil {
		apperr.Write(c, err)
		return
	}
	// The read side effect is opt-in; a plain history read leaves unread
	// state alone.
	q := domain.HistoryQuery{
		Limit:      intQuery(c, "limit", 50),
		Offset:     intQuery(c, "offset", 0),
		MarkAsRead: c.Query("mark_as_read") == "true",
	}
	history, err := h.Service.History(middleware.UserID(c), otherID, q)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// UnreadCount handles GET /chat/unread-count.
func (h *ChatHandler) UnreadCount(c *gin.Context) {
	count, err := h.Service.UnreadCount(middleware.UserID(c))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.UnreadCountResponse{UnreadCount: count})
}

// MarkRead handles POST /chat/mark-read. Only messages addressed to the
// caller are affected; foreign ids are silently skipped.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	var req domain.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Write(c, apperr.Validation("Invalid request body", err.Error()))
		return
	}
	marked, err := h.Service.MarkRead(middleware.UserID(c), req.MessageIDs)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.MarkReadResponse{MarkedCount: marked})
}

// Conversations handles GET /chat/conversations.
func (h *ChatHandler) Conversations(c *gin.Context) {
	list, err := h.Service.Conversations(middleware.UserID(c), intQuery(c, "limit", 20))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Users handles GET /chat/users, the messageable-user directory.
func (h *ChatHandler) Users(c *gin.Context) {
	list, err := h.Service.ChatUsers(middleware.UserID(c))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Status handles GET /chat/status/:user_id, the per-user presence check.
func (h *ChatHandler) Status(c *gin.Context) {
	id, err := pathID(c, "user_id")
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":   id,
		"is_online": h.Presence != nil && h.Presence.IsOnline(id),
	})
}

// OnlineUsers handles GET /chat/online-users.
func (h *ChatHandler) OnlineUsers(c *gin.Context) {
	ids := []uint{}
	if h.Presence != nil {
		ids = h.Presence.OnlineIDs()
	}
	c.JSON(http.StatusOK, gin.H{
		"online_users": ids,
		"count":        len(ids),
	})
}

func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperr.Validation("Invalid "+name, nil)
	}
	return uint(id), nil
}

func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
