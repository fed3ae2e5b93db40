package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/reputation-ledger/internal/config"
	"github.com/ignatzorin/reputation-ledger/internal/http/handlers"
	"github.com/ignatzorin/reputation-ledger/internal/http/middleware"
	"github.com/ignatzorin/reputation-ledger/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	reviewHandler *handlers.ReviewHandler,
	queryHandler *handlers.QueryHandler,
	eventsHandler *handlers.EventsHandler,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	// Выпуск токенов только на стенде: в проде идентичность даёт хост.
	if authHandler != nil && cfg.Env == "development" {
		authRateLimit := middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod)
		api.POST("/auth/token", authRateLimit, authHandler.IssueToken)
	}

	// Публичные read-only маршруты: чтение никогда не запускает пересчёт.
	api.GET("/reviews", queryHandler.ListReviews)
	api.GET("/users/:address/reputation", queryHandler.GetUserReputation)
	api.GET("/stats", queryHandler.GetStats)
	api.GET("/events", eventsHandler.Handle)

	// Маршруты, меняющие состояние.
	writeRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.POST("/reviews", writeRateLimit, reviewHandler.SubmitReview)
		protected.POST("/reviews/:id/dispute", writeRateLimit, reviewHandler.FlagDispute)
		protected.PUT("/users/:address/volume", writeRateLimit, reviewHandler.SetVolume)
	}

	return r
}
