// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mia-platform/logsink/internal/info"
	"github.com/mia-platform/logsink/internal/logger"
)

const (
	loggerName = "logsink:server"
)

type Server interface {
	Start() error
	Stop() error
	Run(ctx context.Context) error
}

type impServer struct {
	Config

	app *fiber.App
	log logger.Logger
}

var (
	ErrServerListen   = errors.New("server listen error")
	ErrServerShutdown = errors.New("server shutdown error")
)

// NewServer reads the server configuration from the environment and builds the
// application using the logger found in ctx for request logs and ingested entries.
func NewServer(ctx context.Context) (Server, error) {
	cfg, err := LoadServerConfig()
	if err != nil {
		return nil, err
	}

	return newServer(ctx, *cfg), nil
}

func newServer(ctx context.Context, cfg Config) *impServer {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: cfg.DisableStartupMessage,
		Immutable:             true, // ingested bodies are handed to asynchronous sinks after the request lifecycle
		ErrorHandler:          errorHandler,
	})
	log := logger.FromContext(ctx)
	app.Use(logger.RequestMiddlewareLogger(log, []string{"/-/"}))

	statusRoutes(app, info.AppName, info.Version)
	app.Post("/logs", ingestHandler)

	return &impServer{
		Config: cfg,
		app:    app,
		log:    log.WithName(loggerName),
	}
}

func (s *impServer) Start() error {
	if err := s.app.Listen(fmt.Sprintf("%s:%d", s.HTTPHost, s.HTTPPort)); err != nil {
		return fmt.Errorf("%w: %w", ErrServerListen, err)
	}
	return nil
}

func (s *impServer) Stop() error {
	if err := s.app.Shutdown(); err != nil {
		return fmt.Errorf("%w: %w", ErrServerShutdown, err)
	}
	return nil
}

// Run starts the server and blocks until ctx is done or the listener fails.
func (s *impServer) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start()
	}()

	s.log.Info("server started", "host", s.HTTPHost, "port", s.HTTPPort)
	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		s.log.Info("shutting down server")
		if err := s.Stop(); err != nil {
			return err
		}
		return <-errChan
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"statusCode": code,
		"error":      http.StatusText(code),
		"message":    err.Error(),
	})
}
