package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/huracan-ai/huracan/internal/api/handler"
	customMiddleware "github.com/huracan-ai/huracan/internal/api/middleware"
	"github.com/huracan-ai/huracan/internal/config"
	"github.com/huracan-ai/huracan/internal/fema"
	"github.com/huracan-ai/huracan/internal/geocode"
	"github.com/huracan-ai/huracan/internal/llm/gemini"
	"github.com/huracan-ai/huracan/internal/repository/postgres"
	"github.com/huracan-ai/huracan/internal/repository/redis"
	"github.com/huracan-ai/huracan/internal/service"
	"github.com/huracan-ai/huracan/internal/vision"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS: credentials must be allowed for the session cookie to travel
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	inspectionRepo := postgres.NewInspectionRepository(db)
	messageRepo := postgres.NewMessageRepository(db)

	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Security.RateLimit.RequestsPerMinute,
		cfg.Security.RateLimit.Burst,
	)

	// External adapters
	generator := gemini.NewClient(cfg.Gemini)
	if !generator.IsConfigured() {
		log.Warn().Msg("Gemini API key is empty, generation calls will fail")
	}
	analyzer := vision.NewClient(cfg.Vision)
	geocoder := geocode.NewClient(cfg.Geocode)
	disasterFeed := fema.NewClient(cfg.Fema)

	// Services
	authService := service.NewAuthService(userRepo, sessionRepo, cfg.Session.TTL)
	chatService := service.NewChatService(inspectionRepo, messageRepo, generator)
	replyService := service.NewReplyService(inspectionRepo, messageRepo, analyzer, generator, geocoder, disasterFeed)

	cookies := customMiddleware.Cookies{
		Name:   cfg.Session.CookieName,
		TTL:    cfg.Session.TTL,
		Secure: cfg.Server.IsProduction(),
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authService, cookies)
	chatHandler := handler.NewChatHandler(chatService, replyService)
	healthHandler := handler.NewHealthHandler(db)

	authMiddleware := customMiddleware.NewAuthMiddleware(authService, cookies)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", healthHandler.Health)
		r.Get("/ready", healthHandler.Ready)

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Get("/me", authHandler.Me)
			})
		})

		// Protected routes
		r.Route("/chat", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.Limit)

			r.Post("/", chatHandler.CreateInspection)
			r.Get("/", chatHandler.ListInspections)
			r.Delete("/", chatHandler.DeleteInspection)

			r.Get("/messages", chatHandler.ListMessages)
			r.Post("/messages", chatHandler.CreateMessage)

			r.Post("/prompt", chatHandler.GenerateReply)
			r.Post("/title", chatHandler.GenerateTitle)
		})
	})

	return r
}
