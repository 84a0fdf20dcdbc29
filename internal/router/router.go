package router

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/exam-platform/internal/config"
	"github.com/stemsi/exam-platform/internal/handler"
	"github.com/stemsi/exam-platform/internal/middleware"
	"github.com/stemsi/exam-platform/internal/response"
	"github.com/stemsi/exam-platform/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth   *handler.AuthHandler
	Exam   *handler.ExamHandler
	Health *handler.HealthHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background work owned by the router (rate limiter cleanup).
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
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(
		response.RequestIDMiddleware(log),
		middleware.RequestLogger(),
		middleware.Brotli(),
	)

	router.GET("/health", handlers.Health.Health)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	// AUTH_RATE_LIMIT_PER_MINUTE=0 disables the limiter.
	var authLimit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.AuthRateLimit > 0 {
		authLimit = middleware.NewRateLimiter(ctx, cfg.AuthRateLimit, time.Minute).Middleware()
	}

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", authLimit, handlers.Auth.Register)
		auth.POST("/login", authLimit, handlers.Auth.Login)
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Exam Group (JWT) ───────────────────────────────────────────
	exam := router.Group("/api/exam")
	exam.Use(middleware.RequireJWT(authService))
	{
		exam.GET("/questions", handlers.Exam.GetQuestions)
		exam.POST("/submit", handlers.Exam.Submit)
		exam.GET("/results", handlers.Exam.ListResults)
		exam.GET("/results/:attemptId", handlers.Exam.GetResult)
	}

	return router
}
