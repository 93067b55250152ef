package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/syndic/internal/api"
	"github.com/terraincognita07/syndic/internal/cli"
	"github.com/terraincognita07/syndic/internal/config"
	"github.com/terraincognita07/syndic/internal/i18n"
	"github.com/terraincognita07/syndic/internal/logging"
	"github.com/terraincognita07/syndic/internal/services"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.logger = logging.New(appName, app.cfg.LogLevel)
			return runServer(cmd.Context(), app.cfg, app.logger)
		},
	}
}

func runServer(parent context.Context, cfg config.Config, log *logrus.Logger) error {
	if err := cfg.ValidateForServe(); err != nil {
		return err
	}
	time.Local = cfg.Location

	runtime, err := cli.OpenRuntime(cfg, log)
	if err != nil {
		return err
	}
	defer runtime.Close()

	server, err := newServer(runtime)
	if err != nil {
		return err
	}

	scheduler := services.NewReminderScheduler(runtime.Reconciler, cfg.AutoReminderSpec, cfg.Location, log)
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer scheduler.Stop()

	if parent == nil {
		parent = context.Background()
	}
	sigCtx, stopSignals := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.ShutdownWithContext(shutdownCtx); err != nil {
			log.WithError(err).Error("server shutdown failed")
		}
	}()

	log.WithFields(logrus.Fields{
		"port":   cfg.Port,
		"driver": cfg.DBDriver,
		"tz":     cfg.Location.String(),
	}).Infof("%s listening on http://0.0.0.0:%s", appName, cfg.Port)
	if err := server.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func newServer(runtime *cli.Runtime) (*fiber.App, error) {
	cfg := runtime.Config
	manager, err := i18n.NewEmbeddedManager(cfg.DefaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("i18n init failed: %w", err)
	}

	handler, err := api.NewHandler(api.HandlerConfig{
		Reconciler:   runtime.Reconciler,
		Warnings:     runtime.Warnings,
		I18n:         manager,
		SecretKey:    cfg.SecretKey,
		CookieSecure: cfg.CookieSecure,
		Location:     cfg.Location,
		Logger:       runtime.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("handler init failed: %w", err)
	}

	server := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		BodyLimit:             api.MaxImportBytes + 1024*1024,
	})
	server.Use(recover.New())
	server.Use(logger.New())
	server.Use(compress.New())
	api.RegisterRoutes(server, handler)
	return server, nil
}
