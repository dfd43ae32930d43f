package server

import (
	"context"
	"strings"

	"notekeeper-be/internal/bootstrap"
	"notekeeper-be/internal/config"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
	logger    logger.ILogger
}

func New(cfg *config.Config, container *bootstrap.Container, log logger.ILogger) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "notekeeper-be",
		BodyLimit:             1024 * 1024, // notes are capped well below this
		ErrorHandler:          serverutils.ErrorHandler(log),
		DisableStartupMessage: true,
	})

	origins := allowedOrigins(cfg)
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowCredentials: origins != "*", // fiber rejects credentials with a wildcard origin
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// OpenTelemetry tracing middleware (no-op unless a tracer provider is installed)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.RequestLogger(log))
	app.Use(serverutils.Metrics(container.Metrics))
	app.Use(recover.New())

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
		logger:    log,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.logger.Info("Server", "Server is running", map[string]interface{}{"addr": "http://localhost:" + s.cfg.App.Port})
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.HealthController.RegisterRoutes(api)
	c.AuthController.RegisterRoutes(api)
	if c.OAuthController != nil {
		c.OAuthController.RegisterRoutes(api)
	}
	c.NoteController.RegisterRoutes(api)
	c.SyncHandler.RegisterRoutes(api)
}

// allowedOrigins always lets the configured frontend through.
func allowedOrigins(cfg *config.Config) string {
	origins := strings.TrimSpace(cfg.App.CorsAllowedOrigins)
	if origins == "" {
		return cfg.App.FrontendURL
	}
	if origins == "*" || strings.Contains(origins, cfg.App.FrontendURL) {
		return origins
	}
	return origins + "," + cfg.App.FrontendURL
}
