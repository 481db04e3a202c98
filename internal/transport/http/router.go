package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"alphachest/internal/transport/http/handler"
	"alphachest/internal/transport/http/middleware"
)

// RouterConfig holds the router's cross-cutting settings.
type RouterConfig struct {
	APIKeys []string
	Logger  *zap.Logger
}

// NewRouter creates and configures the HTTP router.
// chestHandler is optional - pass nil to serve health checks only.
func NewRouter(cfg RouterConfig, h *handler.Handler, chestHandler *handler.ChestHandler) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Global middleware stack
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"}, // Configure for production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-API-Key"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// API key authentication (skipped for health checks)
	r.Use(middleware.APIKeyAuth(cfg.APIKeys))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/ready", h.Ready)

		if chestHandler == nil {
			return
		}

		r.Route("/chests", func(r chi.Router) {
			r.Get("/", chestHandler.CountChests)
			r.Post("/save", chestHandler.SaveChests)

			r.Route("/{identity}", func(r chi.Router) {
				r.Get("/", chestHandler.GetChest)
				r.Delete("/", chestHandler.ClearChest)
				r.Put("/slots/{slot}", chestHandler.SetSlot)
			})
		})

		r.Route("/players", func(r chi.Router) {
			r.Post("/", chestHandler.RecordPlayer)
			r.Post("/{uuid}/death", chestHandler.HandleDeath)
		})
	})

	return r
}
