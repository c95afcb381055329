package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/psewdon1m/hermes/internal/webhook"
)

type Server struct {
	app            *fiber.App
	webhookHandler *webhook.Handler
	logger         *zap.SugaredLogger
}

func NewServer(webhookHandler *webhook.Handler, logger *zap.SugaredLogger) *Server {
	app := fiber.New(fiber.Config{
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	return &Server{
		app:            app,
		webhookHandler: webhookHandler,
		logger:         logger,
	}
}

func (s *Server) setupRoutes() {
	s.app.Post("/webhook", s.webhookHandler.HandleWebhook)
	s.app.Get("/health", healthHandler)
	s.app.Get("/ready", readyHandler)
}

func (s *Server) Start(port string) error {
	s.setupRoutes()
	s.logger.Infow("http server listening", "port", port)
	return s.app.Listen(":" + port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func healthHandler(c *fiber.Ctx) error {
	return c.SendString("ok")
}

func readyHandler(c *fiber.Ctx) error {
	return c.SendString("ready")
}
