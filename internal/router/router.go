package router

import (
	"log/slog"
	"net/http"
	"time"

	appLogger "github.com/FACorreiaa/go-tourism-planner/app/logger"
	appMiddleware "github.com/FACorreiaa/go-tourism-planner/app/middleware"
	"github.com/FACorreiaa/go-tourism-planner/internal/api"
	"github.com/FACorreiaa/go-tourism-planner/internal/api/status"
	"github.com/FACorreiaa/go-tourism-planner/internal/api/tourism"
	"github.com/FACorreiaa/go-tourism-planner/internal/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// APIMessage is returned by GET /api/.
const APIMessage = "Tourism Planner API"

// Config contains dependencies needed for the router setup.
type Config struct {
	TourismHandler *tourism.Handler
	// StatusHandler is nil when no database is configured; /api/status is then not mounted.
	StatusHandler  *status.Handler
	WebHandler     *web.Handler
	AllowedOrigins []string
	Timeout        time.Duration
	Logger         *slog.Logger
}

// SetupRouter builds the application router with the server-wide middleware stack.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(appMiddleware.Trace)
	if cfg.Timeout > 0 {
		r.Use(middleware.Timeout(cfg.Timeout))
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Compress(5, "application/json"))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": APIMessage})
		})
		r.Post("/tourism/query", cfg.TourismHandler.Query)

		if cfg.StatusHandler != nil {
			r.Post("/status", cfg.StatusHandler.Create)
			r.Get("/status", cfg.StatusHandler.List)
		}
	})

	if cfg.WebHandler != nil {
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.NoStore)
			cfg.WebHandler.Routes(r)
		})
	}

	return r
}
