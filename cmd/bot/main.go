package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/psewdon1m/hermes/internal/callapi"
	"github.com/psewdon1m/hermes/internal/config"
	"github.com/psewdon1m/hermes/internal/handlers"
	"github.com/psewdon1m/hermes/internal/poller"
	"github.com/psewdon1m/hermes/internal/routes"
	"github.com/psewdon1m/hermes/internal/storage"
	"github.com/psewdon1m/hermes/internal/telegram"
	"github.com/psewdon1m/hermes/internal/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Infow("starting hermes bot",
		"mode", cfg.Mode,
		"call_api_url", cfg.CallAPIURL)

	redisStorage, err := storage.NewRedisStorage(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatalw("failed to initialize redis", "error", err)
	}
	defer redisStorage.Close()

	tgClient := telegram.NewClient(cfg.TelegramAPIURL, cfg.BotToken, logger)
	callClient := callapi.NewClient(cfg.CallAPIURL, cfg.CallCreatePath, cfg.AnonymousRooms, logger)
	bot := handlers.New(tgClient, callClient, logger)

	metricsSrv := newMetricsServer(cfg.MetricsPort, logger)
	go func() {
		if err := metricsSrv.Listen(":" + cfg.MetricsPort); err != nil {
			logger.Errorw("metrics server error", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var server *routes.Server
	switch cfg.Mode {
	case config.ModeWebhook:
		webhookHandler := webhook.NewHandler(cfg.WebhookSecret, redisStorage, bot.HandleUpdate, logger)
		server = routes.NewServer(webhookHandler, logger)
		go func() {
			if err := server.Start(cfg.Port); err != nil {
				logger.Errorw("http server error", "error", err)
			}
		}()
	case config.ModePolling:
		updatePoller := poller.New(tgClient, redisStorage, bot.HandleUpdate, logger)
		go func() {
			if err := updatePoller.Run(ctx); err != nil {
				logger.Errorw("update poller error", "error", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down gracefully...")
	cancel()

	if server != nil {
		if err := server.Shutdown(); err != nil {
			logger.Errorw("http server shutdown error", "error", err)
		}
	}
	if err := metricsSrv.Shutdown(); err != nil {
		logger.Errorw("metrics server shutdown error", "error", err)
	}

	logger.Info("hermes bot stopped")
}

func newMetricsServer(port string, logger *zap.SugaredLogger) *fiber.App {
	app := fiber.New()
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	logger.Infow("metrics server listening", "port", port)
	return app
}

func initLogger(level string) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()

	switch level {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
