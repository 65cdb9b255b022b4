// Package main provides the Fluxion API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/fluxion-ai/fluxion/pkg/eventbus"
	"github.com/fluxion-ai/fluxion/pkg/persistence"
	"github.com/fluxion-ai/fluxion/pkg/registry"
	"github.com/fluxion-ai/fluxion/pkg/services"
	"github.com/fluxion-ai/fluxion/pkg/web"
	"github.com/fluxion-ai/fluxion/pkg/workflow"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"go.opentelemetry.io/otel/trace"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	registry    *registry.Registry
	eventBus    eventbus.EventBus
	tracer      trace.Tracer
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	registry *registry.Registry,
	eventBus eventbus.EventBus,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		registry:    registry,
		eventBus:    eventBus,
	}
}

// WithTracer enables distributed tracing on workflow runs.
func (a *API) WithTracer(tracer trace.Tracer) *API {
	a.tracer = tracer

	return a
}

func (a *API) App() *fiber.App {
	executor := workflow.NewExecutor(a.logger, persistence.NewCatalog(a.persistence), a.registry).
		WithPublisher(a.eventBus)

	if a.tracer != nil {
		executor = executor.WithTracer(a.tracer)
	}

	handlers := web.NewAPIHandlers(
		services.NewWorkflow(a.logger, a.persistence, executor),
		services.NewMetamodel(a.persistence),
		a.registry,
	)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Fluxion API")
	})

	handlers.SetupRoutes(app)

	return app
}

func (a *API) Start(port int) error {
	return a.App().Listen(":" + strconv.Itoa(port))
}
