package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"mock-interview-api/internal/config"
)

// New assembles the Fiber application with CORS and panic recovery and
// registers the interview routes.
func New(cfg *config.Config, controller *InterviewController) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "mock-interview-api",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSAllowedOrigins,
	}))

	controller.RegisterRoutes(app)

	return app
}
