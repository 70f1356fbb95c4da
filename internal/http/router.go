package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/homegrid/backend/internal/auth"
	"github.com/homegrid/backend/internal/config"
	"github.com/homegrid/backend/internal/http/handlers"
	"github.com/homegrid/backend/internal/middleware"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	sessions *auth.SessionStore,
	authHandler *handlers.AuthHandler,
	deviceHandler *handlers.DeviceHandler,
	logHandler *handlers.LogHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Use(middleware.RateLimitMiddleware(rdb, 100, time.Minute))

	// Auth (public)
	app.Post("/register", authHandler.Register)
	app.Post("/login", authHandler.Login)
	app.Get("/session", authHandler.Session)

	// Protected endpoints
	protected := app.Group("", middleware.AuthMiddleware(cfg, sessions, log))

	protected.Post("/logout", authHandler.Logout)
	protected.Get("/devices", deviceHandler.Devices)
	protected.Post("/turn/:device/:action", deviceHandler.Turn)
	protected.Get("/logs", logHandler.Logs)

	// WebSocket live feed
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
