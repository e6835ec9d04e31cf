// Package httpapi exposes the validator service over HTTP using Fiber.
package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mikey/mailprobe/internal/config"
	"github.com/mikey/mailprobe/internal/core"
)

// Server is the HTTP adapter around the validator service.
type Server struct {
	app     *fiber.App
	service *core.ValidatorService
	logger  *zap.Logger
	addr    string
}

// NewServer creates the HTTP server and registers its routes.
func NewServer(cfg *config.Config, service *core.ValidatorService, logger *zap.Logger) *Server {
	srvConfig := cfg.GetServer()

	app := fiber.New(fiber.Config{
		ReadTimeout:           srvConfig.ReadTimeout,
		WriteTimeout:          srvConfig.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
			}
			logger.Error("Unhandled request error", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		},
	})

	s := &Server{
		app:     app,
		service: service,
		logger:  logger,
		addr:    srvConfig.ListenAddress,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", s.handleHealth)

	api := s.app.Group("/api/v1")
	api.Post("/validate", s.handleValidate)
	api.Post("/train", s.handleTrain)
	api.Post("/evaluate", s.handleEvaluate)
}

// Start begins serving. It blocks until the listener fails or Stop is
// called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("address", s.addr))
	return s.app.Listen(s.addr)
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() error {
	s.logger.Info("HTTP server shutting down")
	return s.app.Shutdown()
}

// App exposes the underlying Fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
