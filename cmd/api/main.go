package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/homegrid/backend/internal/auth"
	"github.com/homegrid/backend/internal/config"
	"github.com/homegrid/backend/internal/controller"
	"github.com/homegrid/backend/internal/db"
	"github.com/homegrid/backend/internal/events"
	apphttp "github.com/homegrid/backend/internal/http"
	"github.com/homegrid/backend/internal/http/handlers"
	"github.com/homegrid/backend/internal/repositories"
	"github.com/homegrid/backend/internal/services"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	activityRepo := repositories.NewActivityLogRepo(pool)
	deviceRepo := repositories.NewDeviceRepo(pool)

	// Mirror the configured allow-list into the devices table.
	if err := deviceRepo.Sync(ctx, cfg.Devices); err != nil {
		log.Fatal("failed to sync device registry", zap.Error(err))
	}

	// Sessions
	sessions := auth.NewSessionStore(rdb, cfg.JWTExpiration)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Controller
	ctrlClient := controller.NewClient(cfg.ControllerBaseURL, cfg.ControllerTimeout, log)
	stateProbe := controller.NewStateProbe(cfg.ControllerBaseURL, cfg.ControllerTimeout, log)

	// Services
	relayService := services.NewRelayService(cfg, ctrlClient, activityRepo, publisher, log)
	feedService := services.NewFeedService(activityRepo, cfg.LogPageSize, log)
	deviceService := services.NewDeviceService(cfg, stateProbe, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, sessions, cfg, log)
	deviceHandler := handlers.NewDeviceHandler(relayService, deviceService, log)
	logHandler := handlers.NewLogHandler(feedService, log)
	wsHub := handlers.NewWSHub(cfg, sessions, subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, sessions, authHandler, deviceHandler, logHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
