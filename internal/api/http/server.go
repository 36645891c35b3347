package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/learning-portal/internal/web"
)

// ServerConfig carries the settings needed to assemble the Fiber app.
type ServerConfig struct {
	AppName        string
	RequestTimeout time.Duration
	Logger         *zap.Logger
	Routes         RouteConfig
}

// NewServer builds the Fiber app with views, middlewares and routes.
func NewServer(cfg ServerConfig) *fiber.App {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		Views:        web.NewEngine(),
		ErrorHandler: ErrorHandler(logger),
	})
	RegisterMiddlewares(app, logger, cfg.RequestTimeout)
	RegisterRoutes(app, cfg.Routes)
	return app
}
