package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	swagger "github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/yjkim/hue/internal/config"
	"github.com/yjkim/hue/internal/database"
	"github.com/yjkim/hue/internal/handlers"
	"github.com/yjkim/hue/internal/hdfs"
	"github.com/yjkim/hue/internal/jobs"
	"github.com/yjkim/hue/internal/middleware"
	"github.com/yjkim/hue/internal/types"
	"github.com/yjkim/hue/pkg/logger"

	_ "github.com/yjkim/hue/docs/api" // Swagger docs
)

// @title Pig Script Store API
// @version 1.0.0
// @description Persisted Pig script documents for the Hadoop job-authoring UI

// @host localhost:3000
// @BasePath /api
// @schemes http https

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Init(false)
		logger.Sugar.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Init(cfg.Debug)
	defer logger.Sync()

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Sugar.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.Sugar.Fatalf("Failed to run migrations: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(fiberlogger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("pigscripts")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	// Hadoop collaborators
	fs := hdfs.NewClient(cfg.WebHDFSURL, "")
	jobsClient := jobs.NewClient(cfg.JobsURL)

	// Create handlers
	scriptsHandler := &handlers.ScriptsHandler{DB: db, Cfg: cfg, FS: fs, Jobs: jobsClient}
	healthHandler := &handlers.HealthHandler{DB: db, Cfg: cfg}

	api.Get("/health", healthHandler.Health)

	// Script routes (all require an authenticated user)
	authed := api.Group("", middleware.AuthUser(db))
	authed.Get("/scripts", scriptsHandler.GetScripts)
	authed.Post("/scripts", scriptsHandler.SaveScript)
	authed.Get("/jobs/:id/output", scriptsHandler.GetJobOutput)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Sugar.Info("gracefully shutting down")
		_ = app.Shutdown()
	}()

	// Start server
	logger.Sugar.Infow("starting server", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Sugar.Fatalf("Failed to start server: %v", err)
	}

	logger.Sugar.Info("server stopped")
}

// customErrorHandler renders unhandled errors with the standard envelope
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	var ce *types.CustomError
	var fe *fiber.Error
	switch {
	case errors.As(err, &ce):
		code = ce.Code
		message = ce.Message
		errorType = ce.Type
	case errors.As(err, &fe):
		code = fe.Code
		message = fe.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
