package cellr

import (
	"context"
	"errors"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
)

const requestIDHeader = "X-Request-Id"

// ServerConfig holds customization options for a Server.
type ServerConfig struct {
	logger   zerolog.Logger
	registry *Registry
	service  string
}

// ServerOption is a functional option for configuring a Server.
type ServerOption = func(config *ServerConfig)

// WithLogger sets the server logger.
func WithLogger(logger zerolog.Logger) ServerOption {
	return func(config *ServerConfig) {
		config.logger = logger
	}
}

// WithRegistry attaches a named-cell registry, enabling the registry
// endpoints.
func WithRegistry(registry *Registry) ServerOption {
	return func(config *ServerConfig) {
		config.registry = registry
	}
}

// WithServiceName overrides the metric namespace. Metrics register on the
// default prometheus registry, so two servers in one process need distinct
// service names.
func WithServiceName(service string) ServerOption {
	return func(config *ServerConfig) {
		config.service = service
	}
}

// Server exposes cell resolution over HTTP.
type Server struct {
	app      *fiber.App
	resolver *Resolver
	registry *Registry
	log      zerolog.Logger

	resolved *prometheus.CounterVec
}

func NewServer(resolver *Resolver, options ...ServerOption) *Server {
	config := &ServerConfig{
		logger:  zerolog.Nop(),
		service: "cellr",
	}
	for _, o := range options {
		o(config)
	}

	resolved := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.service,
		Name:      "cells_resolved_total",
		Help:      "Cell resolutions by outcome.",
	}, []string{"outcome"})
	if err := prometheus.Register(resolved); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			resolved = are.ExistingCollector.(*prometheus.CounterVec)
		}
	}

	s := &Server{
		app:      fiber.New(fiber.Config{DisableStartupMessage: true}),
		resolver: resolver,
		registry: config.registry,
		log:      config.logger,
		resolved: resolved,
	}

	prom := fiberprometheus.New(config.service)
	prom.RegisterAt(s.app, "/metrics")
	s.app.Use(prom.Middleware)

	s.app.Use(func(c *fiber.Ctx) error {
		c.Set(requestIDHeader, ksuid.New().String())
		return c.Next()
	})

	v1 := s.app.Group("/api/v1")
	v1.Get("/cells/:token", s.handleCell)
	v1.Get("/cells/:token/parent", s.handleParent)
	v1.Get("/cells/:token/children", s.handleChildren)
	v1.Get("/registry/:name", s.handleRegistry)

	return s
}

// Listen serves until the listener fails or the app is shut down.
func (s *Server) Listen(addr string) error {
	s.log.Info().Str("addr", addr).Msg("listening")
	return s.app.Listen(addr)
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) handleCell(c *fiber.Ctx) error {
	rec, err := s.resolver.Resolve(c.Params("token"))
	if err != nil {
		s.resolved.WithLabelValues("error").Inc()
		return s.fail(c, err)
	}

	s.resolved.WithLabelValues("ok").Inc()
	return c.JSON(rec)
}

func (s *Server) handleParent(c *fiber.Ctx) error {
	rec, err := s.resolver.Parent(c.Params("token"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(rec)
}

func (s *Server) handleChildren(c *fiber.Ctx) error {
	records, err := s.resolver.Children(c.Params("token"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(records)
}

func (s *Server) handleRegistry(c *fiber.Ctx) error {
	if s.registry == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no registry configured",
		})
	}

	name := c.Params("name")
	token, ok := s.registry.Token(name)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unknown registry name",
			"name":  name,
		})
	}

	rec, err := s.resolver.Resolve(token)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(rec)
}

// fail maps the library error kinds onto HTTP status codes.
func (s *Server) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrInvalidCellID):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrHierarchy):
		status = fiber.StatusUnprocessableEntity
	}

	if status == fiber.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
