// Package server assembles the Fiber application: middleware chain, routes,
// metrics and API docs. Nothing here is process-global; callers own the app.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	_ "peopleapi/docs"
	handlers "peopleapi/internal/http/handler"
	"peopleapi/internal/http/middleware"
	"peopleapi/internal/service"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	// DB backs the readiness probe.
	DB handlers.Pinger
	// People serves the people routes.
	People service.PersonService
	// Logger is the base logger for access logs and handler errors.
	Logger zerolog.Logger
	// Registry receives the HTTP metrics and is exposed on /metrics.
	Registry *prometheus.Registry
	// BaseContext parents every request context; cancelling it aborts
	// in-flight store calls. Defaults to context.Background().
	BaseContext context.Context
	// RequestTimeout bounds each request when positive.
	RequestTimeout time.Duration
}

// New builds the Fiber application.
func New(d Deps) (*fiber.App, error) {
	if d.DB == nil {
		return nil, errors.New("server: database pinger is required")
	}
	if d.People == nil {
		return nil, errors.New("server: person service is required")
	}
	if d.Registry == nil {
		return nil, errors.New("server: metrics registry is required")
	}

	prom, err := middleware.NewPrometheusMiddleware(d.Registry)
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               "peopleapi",
		ErrorHandler:          handlers.ErrorHandler(),
		UnescapePath:          true,
		DisableStartupMessage: true,
	})

	// otelfiber runs the error handler itself, so it must see the request
	// logger. recover stays innermost: panics are logged and counted as 500s.
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestContext(d.BaseContext, d.RequestTimeout))
	app.Use(middleware.Logger(d.Logger))
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == middleware.MetricsPath || c.Path() == "/healthz"
	})))
	app.Use(prom.Handler())
	app.Use(recover.New())

	app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	app.Get("/swagger/*", swagger.HandlerDefault)

	handlers.RegisterRoutes(app, d.DB, d.People)

	return app, nil
}
