package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/5-in-a-row/backend/internal/transport/http/middleware"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Auth    *AuthHandler
	Lobby   *LobbyHandler
	History *HistoryHandler
	Admin   *AdminHandler

	Authenticator  middleware.Authenticator
	AdminToken     string
	AllowedOrigins []string
	WebSocket      http.HandlerFunc
	Log            *zap.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins, cfg.Log))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes
	api := router.Group("/api")
	api.POST("/auth/register", cfg.Auth.Register)
	api.POST("/auth/login", cfg.Auth.Login)
	api.GET("/leaderboard", cfg.Lobby.Leaderboard)
	api.GET("/rooms", cfg.Lobby.Rooms)
	api.GET("/users/:username", cfg.Lobby.Profile)
	api.GET("/users/:username/history", cfg.History.GetHistory)

	protected := api.Group("/")
	protected.Use(middleware.Auth(cfg.Authenticator))
	{
		protected.POST("/auth/logout", cfg.Auth.Logout)
		protected.GET("/auth/me", cfg.Auth.Me)
		protected.GET("/online", cfg.Lobby.Online)
		protected.GET("/history", cfg.History.GetHistory)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AdminToken(cfg.AdminToken))
	{
		admin.POST("/ban/:username", cfg.Admin.Ban)
		admin.POST("/announce", cfg.Admin.Announce)
	}

	// WebSocket route; the handler authenticates with its init frame
	if cfg.WebSocket != nil {
		router.GET("/ws", gin.WrapF(cfg.WebSocket))
	}
	return router
}
