package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/finchmedia/notifier/internal/api/handler"
	"github.com/finchmedia/notifier/internal/config"
)

// NewRouter creates and configures the Chi router with all middleware and
// routes. The notification endpoints are scoped to the JWT caller; the
// event webhook is guarded by the shared catalog token instead.
func NewRouter(h *handler.Handler, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Process-Time"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Poll surface, scoped to the authenticated user
		r.Group(func(r chi.Router) {
			r.Use(JWTAuth(cfg.JWTSecret))
			r.Get("/notifications", h.ListNotifications)
			r.Get("/notifications/unread/count", h.UnreadCount)
			r.Post("/notifications/{id}/read", h.MarkRead)
			r.Post("/notifications/{id}/delivered", h.MarkDelivered)
		})

		// Inbound port for the host catalog
		r.Group(func(r chi.Router) {
			r.Use(WebhookAuth(cfg.WebhookToken))
			r.Post("/internal/events/item-added", h.ItemAdded)
		})
	})

	return r
}
