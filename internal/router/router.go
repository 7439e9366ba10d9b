package router

import (
	"context"
	"time"

	"github.com/acme/faculty/internal/config"
	"github.com/acme/faculty/internal/handler"
	"github.com/acme/faculty/internal/middleware"
	"github.com/acme/faculty/internal/response"
	"github.com/acme/faculty/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Faculty *handler.FacultyHandler
	WS      *handler.WSHandler
	Health  *handler.HealthHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background work owned by middlewares such as the rate limiter.
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "If-Match", "If-None-Match"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "ETag", "Location"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request IDs first so the access log can pick them up.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.AccessLog(log))
	router.Use(middleware.Brotli())

	router.GET("/health", handlers.Health.Health)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	authLimiter := middleware.NewRateLimiter(ctx, cfg.LoginRatePerMinute, time.Minute)
	auth := router.Group("/auth")
	{
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		auth.GET("/me", middleware.RequireAdminJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Faculty collection ─────────────────────────────────────────
	// Search is public; single reads and writes need an admin.
	faculties := router.Group(cfg.RestPath)
	{
		faculties.GET("", handlers.Faculty.Find)

		admin := faculties.Group("")
		admin.Use(middleware.RequireAdminJWT(authService))
		admin.GET("/:id", middleware.Revalidate(), handlers.Faculty.GetByID)
		admin.POST("", handlers.Faculty.Create)
		admin.PUT("/:id", handlers.Faculty.Update)
	}

	// ─── 3. WebSocket Group (Admin WS Auth) ────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireAdminWSAuth(authService))
	{
		ws.GET("/faculties/stream", handlers.WS.FacultyStream)
	}

	return router
}
