package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"bibliothek_backend/internals/configs"
	database "bibliothek_backend/internals/databases"
	scheduler "bibliothek_backend/internals/features/users/auth/scheduler"
	helper "bibliothek_backend/internals/helpers"
	middlewares "bibliothek_backend/internals/middlewares"
	routes "bibliothek_backend/internals/route"
	seeds "bibliothek_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		ErrorHandler:            helper.ErrorHandler,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          configs.TrustedProxies(),
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(middlewares.RequestContext(configs.GetEnvDuration("REQUEST_TIMEOUT", 10*time.Second)))

	middlewares.SetupMiddlewares(app)

	// DB connect + schema + pool + warm-up
	database.ConnectDB()
	if configs.GetEnv("AUTO_MIGRATE", "true") == "true" {
		if err := database.Migrate(database.DB); err != nil {
			log.Fatalf("❌ migration failed: %v", err)
		}
	}
	database.TunePool()
	database.WarmUpQueries()

	if configs.GetEnv("RUN_SEEDS") == "true" {
		seeds.RunAllSeeds(database.DB)
	}

	cleanup, err := scheduler.StartCleanupScheduler(database.DB, scheduler.CleanupConfigFromEnv())
	if err != nil {
		log.Fatalf("❌ cleanup scheduler: %v", err)
	}

	routes.SetupRoutes(app, database.DB)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Printf("✅ Listening on :%s", configs.Port)
		if err := app.Listen("0.0.0.0:" + configs.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: stop cron, drain HTTP, close the pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	<-cleanup.Stop().Done()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
