package ws

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/johnolamide/echo-mcp-server/internal/domain"
	"github.com/johnolamide/echo-mcp-server/internal/metrics"
	"github.com/johnolamide/echo-mcp-server/pkg/jwt"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from the separately served frontend.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades GET /ws/chat/:user_id. The access token rides in the
// "token" query parameter because browsers cannot set headers on a websocket
// handshake. Auth failures complete the upgrade and then close with policy
// violation (1008) so clients get a websocket-level signal rather than an
// opaque HTTP error.
func Handler(registry *Registry, pusher domain.MessagePusher, chat domain.ChatService, users domain.UserRepository, tokens jwt.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Debug().Err(err).Msg("websocket upgrade failed")
			return
		}

		pathID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
		if err != nil {
			policyClose(conn, "invalid user id")
			return
		}

		claims, err := tokens.ValidateAccess(c.Query("token"))
		if err != nil {
			policyClose(conn, "authentication failed")
			return
		}
		if claims.UserID != uint(pathID) {
			policyClose(conn, "token does not match user")
			return
		}
		user, err := users.GetByID(claims.UserID)
		if err != nil || !user.IsActive {
			policyClose(conn, "user not found or inactive")
			return
		}

		client := newClient(conn, pusher, chat, user.ID, user.Username)
		registry.Register(user.ID, client)
		metrics.WsConnections.Inc()
		log.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("websocket connected")

		go client.writePump()
		client.readPump()

		registry.Unregister(user.ID, client)
		client.shutdown()
		conn.Close()
		metrics.WsConnections.Dec()
		log.Info().Uint("user_id", user.ID).Msg("websocket disconnected")
	}
}

func policyClose(conn *websocket.Conn, reason string) {
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage, msg)
	conn.Close()
}
