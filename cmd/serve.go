package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stocksync/core/config"
	"stocksync/core/logger"
	"stocksync/feature/reports"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd starts the report viewer HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve past run reports over HTTP",
	Long: `Starts a small HTTP server exposing the persisted run reports:

  GET /runs        list all runs, newest first
  GET /runs/:file  one full run report`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// Request logging
		app.Use(func(c *fiber.Ctx) error {
			start := time.Now()
			err := c.Next()
			logg.Info("Request",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("duration", time.Since(start)),
			)
			return err
		})

		// 4. Register routes
		service := reports.NewService(cfg.Sync.ReportDir, logg)
		reports.NewHandler(service).RegisterRoutes(app)

		// 5. Start server with graceful shutdown
		go func() {
			logg.Info("Report viewer listening",
				zap.String("port", cfg.Serve.Port),
				zap.String("report_dir", cfg.Sync.ReportDir),
			)
			if err := app.Listen(":" + cfg.Serve.Port); err != nil {
				logg.Fatal("Server failed", zap.Error(err))
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logg.Info("Shutting down")
		if err := app.Shutdown(); err != nil {
			logg.Error("Shutdown failed", zap.Error(err))
		}
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
