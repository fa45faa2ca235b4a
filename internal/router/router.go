package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/johnolamide/echo-mcp-server/internal/config"
	"github.com/johnolamide/echo-mcp-server/internal/handler"
	"github.com/johnolamide/echo-mcp-server/internal/metrics"
	"github.com/johnolamide/echo-mcp-server/internal/middleware"
	"github.com/johnolamide/echo-mcp-server/pkg/jwt"
)

// Deps carries everything the router mounts.
type Deps struct {
	Auth     *handler.AuthHandler
	Chat     *handler.ChatHandler
	Services *handler.ServiceHandler
	Admin    *handler.AdminHandler
	Health   *handler.HealthHandler
	WsChat   gin.HandlerFunc
	Tokens   jwt.TokenManager
}

// New assembles the gin engine with the full middleware chain and API surface.
func New(cfg *config.Config, d Deps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(metrics.GinMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimit(float64(cfg.RateLimitPerSecond), cfg.RateLimitBurst))

	r.GET("/", d.Health.Root)
	r.GET("/health", d.Health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Token rides in the query string; the handler authenticates before
	// accepting frames.
	r.GET("/ws/chat/:user_id", d.WsChat)

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", d.Auth.Register)
		auth.POST("/create-admin", d.Auth.RegisterAdmin)
		auth.POST("/login", d.Auth.Login)
		auth.POST("/refresh", d.Auth.Refresh)
	}

	authed := api.Group("", middleware.Auth(d.Tokens))
	{
		authed.POST("/auth/logout", d.Auth.Logout)
		authed.GET("/auth/me", d.Auth.Me)
		authed.PUT("/auth/me", d.Auth.UpdateMe)

		chat := authed.Group("/chat")
		{
			chat.POST("/send", d.Chat.Send)
			chat.GET("/history/:other_user_id", d.Chat.History)
			chat.GET("/unread-count", d.Chat.UnreadCount)
			chat.POST("/mark-read", d.Chat.MarkRead)
			chat.GET("/conversations", d.Chat.Conversations)
			chat.GET("/users", d.Chat.Users)
			chat.GET("/status/:user_id", d.Chat.Status)
			chat.GET("/online-users", d.Chat.OnlineUsers)
		}

		authed.GET("/services", d.Services.List)
		authed.GET("/services/:service_id", d.Services.Get)

		admin := authed.Group("", middleware.AdminOnly())
		{
			admin.POST("/services", d.Services.Create)
			admin.PUT("/services/:service_id", d.Services.Update)
			admin.DELETE("/services/:service_id", d.Services.Delete)

			admin.GET("/admin/users", d.Admin.ListUsers)
			admin.GET("/admin/users/:user_id", d.Admin.GetUser)
			admin.PATCH("/admin/users/:user_id", d.Admin.UpdateUserFlags)
		}
	}

	return r
}
