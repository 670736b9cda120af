package container

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-tourism-planner/app/db"
	"github.com/FACorreiaa/go-tourism-planner/config"
	"github.com/FACorreiaa/go-tourism-planner/internal/api/status"
	"github.com/FACorreiaa/go-tourism-planner/internal/api/tourism"
	"github.com/FACorreiaa/go-tourism-planner/internal/planner"
	"github.com/FACorreiaa/go-tourism-planner/internal/render"
	"github.com/FACorreiaa/go-tourism-planner/internal/router"
	"github.com/FACorreiaa/go-tourism-planner/internal/web"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *slog.Logger
	Pool           *pgxpool.Pool
	TourismHandler *tourism.Handler
	StatusHandler  *status.Handler
	WebHandler     *web.Handler
	Sessions       *web.Sessions
	Renderer       *render.Renderer
	PlannerClient  *planner.Client
}

// NewContainer wires the application from configuration. The database is only
// initialised when a Postgres host is configured.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	geo := tourism.NewNominatimClient(cfg.Upstreams.NominatimURL, cfg.Upstreams.UserAgent)
	weather := tourism.NewOpenMeteoClient(cfg.Upstreams.OpenMeteoURL)
	places := tourism.NewOverpassClient(cfg.Upstreams.OverpassURL, cfg.Upstreams.PlacesRadius, cfg.Upstreams.PlacesLimit)
	tourismService := tourism.NewServiceImpl(geo, weather, places, logger)
	c.TourismHandler = tourism.NewHandler(tourismService, logger)

	if cfg.PostgresEnabled() {
		dbConfig, err := database.NewDatabaseConfig(cfg, logger)
		if err != nil {
			logger.Error("Failed to generate database config", slog.Any("error", err))
			return nil, err
		}

		if err = database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
			logger.Error("Failed to run database migrations", slog.Any("error", err))
			return nil, err
		}

		pool, err := database.Init(ctx, dbConfig.ConnectionURL, logger)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.Any("error", err))
			return nil, err
		}
		c.Pool = pool

		statusRepo := status.NewPostgresRepository(pool, logger)
		statusService := status.NewServiceImpl(statusRepo, logger)
		c.StatusHandler = status.NewHandler(statusService, logger)
	} else {
		logger.Info("No Postgres host configured, status checks disabled")
	}

	c.PlannerClient = planner.NewClient(cfg.Planner.APIBaseURL, &http.Client{Timeout: cfg.Planner.RequestTimeout})
	c.Renderer = render.NewRenderer(cfg.Planner.SearchURL)
	c.Sessions = web.NewSessions(cfg.Planner.SessionTTL, func() *planner.Controller {
		return planner.NewController(c.PlannerClient, logger)
	})
	c.WebHandler = web.NewHandler(c.Sessions, c.Renderer, logger)

	return c, nil
}

// Router builds the HTTP handler for the API and the planner page.
func (c *Container) Router() http.Handler {
	return router.SetupRouter(&router.Config{
		TourismHandler: c.TourismHandler,
		StatusHandler:  c.StatusHandler,
		WebHandler:     c.WebHandler,
		AllowedOrigins: c.Config.CORS.AllowedOrigins,
		Timeout:        c.Config.Server.Timeout,
		Logger:         c.Logger,
	})
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready. Without a database it returns true.
func (c *Container) WaitForDB(ctx context.Context) bool {
	if c.Pool == nil {
		return true
	}
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}
