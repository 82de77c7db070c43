package http

import (
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// ServerConfig opciones del servidor HTTP.
type ServerConfig struct {
	AppName        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	SwaggerEnabled bool
	SwaggerFile    string
}

// NewApp construye la aplicación Fiber con recover, manejo de errores, /health y las rutas /api.
func NewApp(cfg ServerConfig, deps RouterDeps, log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	if cfg.SwaggerEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.SwaggerFile,
			Path:     "docs",
			Title:    "Retail Ledger API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.AppName})
	})

	Router(app, deps)
	return app
}
