// Package main provides the Courseflow API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/openlms/courseflow/pkg/eventbus"
	"github.com/openlms/courseflow/pkg/persistence"
	"github.com/openlms/courseflow/pkg/services"
	"github.com/openlms/courseflow/pkg/sessionstore"
	"github.com/openlms/courseflow/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	sessions    sessionstore.Store
	eventBus    eventbus.EventBus
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	sessions sessionstore.Store,
	eventBus eventbus.EventBus,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		sessions:    sessions,
		eventBus:    eventBus,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	templateService := services.NewTemplate(a.persistence, a.eventBus, a.logger)
	designerService := services.NewDesigner(templateService, a.sessions, a.logger)

	handlers := web.NewAPIHandlers(templateService, designerService, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Courseflow API")
	})

	t := app.Group("/templates")
	t.Get("/", handlers.GetTemplates)
	t.Post("/", handlers.CreateTemplate)
	t.Get("/:id", handlers.GetTemplate)
	t.Patch("/:id", handlers.UpdateTemplate)
	t.Delete("/:id", handlers.DeleteTemplate)
	t.Post("/:id/designer", handlers.OpenDesigner)

	d := app.Group("/designer")
	d.Post("/", handlers.OpenDraftDesigner)
	d.Get("/:sessionId/design", handlers.GetDesignView)
	d.Get("/:sessionId/preview", handlers.GetPreviewView)
	d.Get("/:sessionId/settings", handlers.GetSettingsView)
	d.Patch("/:sessionId/settings", handlers.UpdateDesignerSettings)
	d.Post("/:sessionId/events", handlers.ApplyDesignerEvent)
	d.Patch("/:sessionId/stages/:stageId", handlers.UpdateDesignerStage)
	d.Delete("/:sessionId/stages/:stageId", handlers.DeleteDesignerStage)
	d.Patch("/:sessionId/transitions/:transitionId", handlers.UpdateDesignerTransition)
	d.Delete("/:sessionId/transitions/:transitionId", handlers.DeleteDesignerTransition)
	d.Post("/:sessionId/save", handlers.SaveDesigner)
	d.Delete("/:sessionId", handlers.CloseDesigner)

	app.Get("/palette", handlers.GetPalette)
	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
