package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockgrowth-api/internal/config"
	"stockgrowth-api/internal/handlers"
	"stockgrowth-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := newLogger(cfg)
	defer log.Sync()

	// Initialize services
	universes := services.NewUniverseResolver(cfg, log)
	analyzer := services.NewGrowthAnalyzer(cfg, universes, log)

	// Initialize handlers
	analyzeHandler := handlers.NewAnalyzeHandler(cfg, analyzer, log)
	healthHandler := handlers.NewHealthHandler()

	app := fiber.New(fiber.Config{
		StrictRouting: true,
		CaseSensitive: true,
		ServerHeader:  "StockGrowth-API",
		AppName:       "Stock Growth Analyzer v1.0",
		ReadTimeout:   time.Second * 10,
		WriteTimeout:  time.Second * 30,
		BodyLimit:     1 * 1024 * 1024, // 1MB
		ErrorHandler:  handlers.CustomErrorHandler,
	})

	// Middleware stack
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       3600,
	}))

	// Routes
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "Stock Growth Analyzer API",
			"version": "1.0.0",
			"status":  "running",
		})
	})

	app.Get("/health", healthHandler.Health)
	app.Get("/health/ready", healthHandler.Ready)

	// API v1 routes
	v1 := app.Group("/v1")
	v1.Post("/analyze-growth", analyzeHandler.AnalyzeGrowth)
	v1.Get("/providers", analyzeHandler.GetProviders)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	// Graceful shutdown
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	log.Info("server started",
		zap.String("port", port),
		zap.String("environment", cfg.Environment),
		zap.String("provider", cfg.FinanceProvider))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Fatal("forced shutdown", zap.Error(err))
	}

	log.Info("server shutdown complete")
}

func newLogger(cfg *config.Config) *zap.Logger {
	if cfg.Environment == "development" {
		l, _ := zap.NewDevelopment()
		return l
	}
	l, _ := zap.NewProduction()
	return l
}
