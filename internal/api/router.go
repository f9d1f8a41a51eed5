package api

import (
	"net/http"
	"time"

	"github.com/chatboxhq/chatbox/internal/api/handler"
	customMiddleware "github.com/chatboxhq/chatbox/internal/api/middleware"
	"github.com/chatboxhq/chatbox/internal/config"
	"github.com/chatboxhq/chatbox/internal/repository/postgres"
	"github.com/chatboxhq/chatbox/internal/repository/redis"
	"github.com/chatboxhq/chatbox/internal/service"
	"github.com/chatboxhq/chatbox/internal/storage"
	"github.com/chatboxhq/chatbox/internal/webhook"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client, store *storage.Store) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	// The video call alone may take up to its full 30s timeout.
	r.Use(middleware.Timeout(cfg.VideoAPI.Timeout + 15*time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Outbound dispatcher
	dispatcher := webhook.NewDispatcher(cfg.VideoAPI, cfg.MessageWebhook)
	if !dispatcher.VideoConfigured() {
		log.Warn().Msg("No video API endpoint configured, jobs will be parked as pending")
	}
	if !dispatcher.MessageConfigured() {
		log.Warn().Msg("No message webhook configured, forwarding disabled")
	}

	// Repositories
	sessionRepo := postgres.NewSessionRepository(db)
	messageRepo := postgres.NewMessageRepository(db)
	videoRepo := postgres.NewVideoRepository(db)

	// Redis-backed helpers
	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.RateLimit.RequestsPerMinute,
		cfg.RateLimit.Burst,
	)
	statusCache := redis.NewStatusCache(redisClient)

	// Services
	sessionService := service.NewSessionService(sessionRepo)
	messageService := service.NewMessageService(messageRepo, store, dispatcher)
	videoService := service.NewVideoService(videoRepo, dispatcher, statusCache)

	// Handlers
	dashboardHandler := handler.NewDashboardHandler(sessionService)
	sessionHandler := handler.NewSessionHandler(sessionService, messageService, videoService)
	videoHandler := handler.NewVideoHandler(videoService)
	mediaHandler := handler.NewMediaHandler(store)

	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	// Health
	r.Get("/health", handler.HealthCheck)
	r.Get("/ready", handler.ReadyCheck(db))

	// Dashboard
	r.Get("/", dashboardHandler.List)

	// Polling endpoint
	r.Get("/videos/{videoID}/status/", videoHandler.Status)

	// Session detail
	r.Get("/sessions/{sessionID}/", sessionHandler.Detail)

	// Attachments
	r.Get("/media/*", mediaHandler.Serve)

	// Mutations are rate limited per client IP
	r.Group(func(r chi.Router) {
		r.Use(rateLimitMiddleware.Limit)

		r.Post("/", dashboardHandler.Create)
		r.Post("/sessions/{sessionID}/", sessionHandler.Act)
		r.Post("/sessions/{sessionID}/delete/", sessionHandler.Delete)
	})

	return r
}
