package web

import (
	"errors"
	"net/http"

	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/fluxion-ai/fluxion/pkg/registry"
	"github.com/fluxion-ai/fluxion/pkg/services"
	"github.com/gofiber/fiber/v3"
)

// APIHandlers binds the service layer to fiber routes.
type APIHandlers struct {
	workflowService  *services.Workflow
	metamodelService *services.Metamodel
	registry         *registry.Registry
}

func NewAPIHandlers(
	workflowService *services.Workflow,
	metamodelService *services.Metamodel,
	reg *registry.Registry,
) *APIHandlers {
	return &APIHandlers{
		workflowService:  workflowService,
		metamodelService: metamodelService,
		registry:         reg,
	}
}

// SetupRoutes mounts every API route on the app.
func (h *APIHandlers) SetupRoutes(app *fiber.App) {
	app.Get("/health", h.HealthCheck)
	app.Get("/node-kinds", h.GetNodeKinds)

	metamodels := app.Group("/node-metamodels")
	metamodels.Get("/", h.GetNodeMetamodels)
	metamodels.Post("/", h.CreateNodeMetamodel)
	metamodels.Get("/:id", h.GetNodeMetamodel)
	metamodels.Delete("/:id", h.DeleteNodeMetamodel)

	workflows := app.Group("/workflows")
	workflows.Get("/", h.GetWorkflows)
	workflows.Post("/", h.CreateWorkflow)
	workflows.Get("/:id", h.GetWorkflow)
	workflows.Delete("/:id", h.DeleteWorkflow)
	workflows.Post("/:id/validate", h.ValidateWorkflow)
	workflows.Post("/:id/run", h.RunWorkflow)

	app.Post("/intents/:id/resolve", h.ResolveIntent)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	message, ok := h.workflowService.HealthCheck(c.Context())

	status := "healthy"
	httpStatus := http.StatusOK

	if !ok {
		status = "unhealthy"
		httpStatus = http.StatusInternalServerError
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
	})
}

// GetNodeKinds lists the registered node kinds and their config schemas.
func (h *APIHandlers) GetNodeKinds(c fiber.Ctx) error {
	kinds := h.registry.Kinds()
	response := make([]NodeKindResponse, 0, len(kinds))

	for _, kind := range kinds {
		factory, ok := h.registry.Factory(kind)
		if !ok {
			continue
		}

		response = append(response, NodeKindResponse{
			Kind:        string(kind),
			Name:        factory.Name(),
			Description: factory.Description(),
			Schema:      factory.Schema(),
		})
	}

	return c.JSON(response)
}

func (h *APIHandlers) GetNodeMetamodels(c fiber.Ctx) error {
	metamodels, err := h.metamodelService.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(metamodels)
}

func (h *APIHandlers) GetNodeMetamodel(c fiber.Ctx) error {
	meta, err := h.metamodelService.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(meta)
}

func (h *APIHandlers) CreateNodeMetamodel(c fiber.Ctx) error {
	var meta models.NodeMetamodel
	if err := c.Bind().JSON(&meta); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.metamodelService.Save(c.Context(), &meta); err != nil {
		return badRequest(c, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(meta)
}

func (h *APIHandlers) DeleteNodeMetamodel(c fiber.Ctx) error {
	if err := h.metamodelService.Delete(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.workflowService.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(workflows)
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	wf, err := h.workflowService.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(wf)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var wf models.WorkflowMetamodel
	if err := c.Bind().JSON(&wf); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.workflowService.Save(c.Context(), &wf); err != nil {
		return badRequest(c, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(wf)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	if err := h.workflowService.Delete(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ValidateWorkflow runs the static validator and reports errors and
// warnings without refusing anything.
func (h *APIHandlers) ValidateWorkflow(c fiber.Ctx) error {
	result, err := h.workflowService.Validate(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(NewValidationResponse(result))
}

// RunWorkflow validates and executes a workflow with an optional seeded
// context.
func (h *APIHandlers) RunWorkflow(c fiber.Ctx) error {
	var req RunWorkflowRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid request body: "+err.Error())
		}
	}

	result, err := h.workflowService.Run(c.Context(), c.Params("id"), req.Seed)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(result)
}

// ResolveIntent returns the workflow that best handles an intent.
func (h *APIHandlers) ResolveIntent(c fiber.Ctx) error {
	intentID := c.Params("id")

	wf, err := h.workflowService.ResolveIntent(c.Context(), intentID)
	if err != nil {
		if errors.Is(err, services.ErrNoWorkflowForIntent) {
			return notFound(c, err.Error())
		}

		return handleServiceError(c, err)
	}

	return c.JSON(ResolveIntentResponse{
		IntentID:   intentID,
		WorkflowID: wf.ID,
		Name:       wf.Name,
	})
}
