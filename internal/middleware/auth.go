package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/johnolamide/echo-mcp-server/internal/apperr"
	"github.com/johnolamide/echo-mcp-server/pkg/jwt"
)

// Context keys populated by Auth for downstream handlers.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxIsAdmin  = "is_admin"
)

// Auth validates the Bearer access token and stashes the caller's identity on
// the gin context. Revoked and refresh-typed tokens are rejected.
func Auth(tokens jwt.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			apperr.Write(c, apperr.Authentication("Not authenticated"))
			return
		}

		claims, err := tokens.ValidateAccess(raw)
		if err != nil {
			apperr.Write(c, apperr.Authentication("Could not validate credentials"))
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUsername, claims.Username)
		c.Set(CtxIsAdmin, claims.IsAdmin)
		c.Next()
	}
}

// AdminOnly gates a route group to admin users. It must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(CtxIsAdmin) {
			apperr.Write(c, apperr.Authorization("Admin privileges required"))
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated caller's id from the gin context.
func UserID(c *gin.Context) uint {
	v, _ := c.Get(CtxUserID)
	id, _ := v.(uint)
	return id
}
