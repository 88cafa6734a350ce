package handler

import (
	"github.com/ferdousr3/manage-x/internal/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// NewApp builds the Fiber app with the middleware stack, the auth routes and the
// catch-all 404.
func NewApp(h *AuthHandler, log *zap.Logger) *fiber.App {
	apiLog := logger.Module(log, logger.ModuleAPI)

	app := fiber.New(fiber.Config{
		AppName:               "manage-x",
		ErrorHandler:          ErrorHandler(apiLog),
		DisableStartupMessage: true,
	})

	app.Use(requestid.New())
	app.Use(RequestLogger(apiLog))
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New())
	app.Use(compress.New())

	RegisterRoutes(app, h)
	app.Use(NotFound)

	return app
}
