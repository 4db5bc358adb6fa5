// Package web provides HTTP handlers and REST API endpoints for template
// designer sessions and template management.
package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/openlms/courseflow/pkg/designer"
	"github.com/openlms/courseflow/pkg/models"
	"github.com/openlms/courseflow/pkg/palette"
	"github.com/openlms/courseflow/pkg/services"
	"github.com/openlms/courseflow/pkg/views"
)

type APIHandlers struct {
	templateService *services.Template
	designerService *services.Designer
	validator       *validator.Validate
}

func NewAPIHandlers(
	templateService *services.Template,
	designerService *services.Designer,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		templateService: templateService,
		designerService: designerService,
		validator:       validator,
	}
}

func (h *APIHandlers) GetTemplates(c fiber.Ctx) error {
	templates, err := h.templateService.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"templates":   templates,
		"total_count": len(templates),
	})
}

func (h *APIHandlers) GetTemplate(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Template ID is required")
	}

	template, err := h.templateService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(template)
}

func (h *APIHandlers) CreateTemplate(c fiber.Ctx) error {
	var req CreateTemplateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	template := models.NewTemplate(req.Name, req.Description)
	template.IsActive = req.IsActive

	created, err := h.templateService.Save(c.Context(), template)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateTemplate(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Template ID is required")
	}

	var req UpdateTemplateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	// Get existing template and merge changes
	existing, err := h.templateService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}

	if req.Description != nil {
		existing.Description = *req.Description
	}

	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}

	updated, err := h.templateService.Save(c.Context(), existing)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteTemplate(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Template ID is required")
	}

	err := h.templateService.Delete(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// OpenDesigner opens an editor session over a stored template.
func (h *APIHandlers) OpenDesigner(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Template ID is required")
	}

	editor, err := h.designerService.OpenSession(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(editor)
}

// OpenDraftDesigner opens an editor session over a brand-new, unsaved
// template.
func (h *APIHandlers) OpenDraftDesigner(c fiber.Ctx) error {
	var req OpenDraftRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	editor, err := h.designerService.OpenDraftSession(c.Context(), req.Name, req.Description)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(editor)
}

func (h *APIHandlers) GetDesignView(c fiber.Ctx) error {
	editor, err := h.designerService.Session(c.Context(), c.Params("sessionId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(views.Design(editor))
}

func (h *APIHandlers) GetPreviewView(c fiber.Ctx) error {
	editor, err := h.designerService.Session(c.Context(), c.Params("sessionId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(views.Preview(editor))
}

func (h *APIHandlers) GetSettingsView(c fiber.Ctx) error {
	editor, err := h.designerService.Session(c.Context(), c.Params("sessionId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(views.Settings(editor))
}

// ApplyDesignerEvent feeds one pointer/gesture event into a session and
// returns the refreshed canvas.
func (h *APIHandlers) ApplyDesignerEvent(c fiber.Ctx) error {
	var req DesignerEventRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	event := designer.Event{
		Type:         designer.EventType(req.Type),
		StageID:      req.StageID,
		TransitionID: req.TransitionID,
		StageType:    models.StageType(req.StageType),
		Position:     req.Position,
	}

	editor, err := h.designerService.ApplyEvent(c.Context(), c.Params("sessionId"), event)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(views.Design(editor))
}

func (h *APIHandlers) UpdateDesignerStage(c fiber.Ctx) error {
	var req UpdateStageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	patch := designer.StagePatch{
		TechnicalName: req.TechnicalName,
		DisplayName:   req.DisplayName,
		IsInitial:     req.IsInitial,
		IsFinal:       req.IsFinal,
		Position:      req.Position,
		Config:        req.Config,
	}

	if req.StageType != nil {
		stageType := models.StageType(*req.StageType)
		if !stageType.IsValid() {
			return badRequest(c, "Unknown stage type: "+*req.StageType)
		}

		patch.Type = &stageType
	}

	if req.Config != nil {
		if err := req.Config.Validate(); err != nil {
			return badRequest(c, err.Error())
		}
	}

	editor, err := h.designerService.UpdateStage(c.Context(), c.Params("sessionId"), c.Params("stageId"), patch)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(views.Design(editor))
}

func (h *APIHandlers) DeleteDesignerStage(c fiber.Ctx) error {
	editor, err := h.designerService.DeleteStage(c.Context(), c.Params("sessionId"), c.Params("stageId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(views.Design(editor))
}

func (h *APIHandlers) UpdateDesignerTransition(c fiber.Ctx) error {
	var req UpdateTransitionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	sessionID := c.Params("sessionId")
	transitionID := c.Params("transitionId")

	editor, err := h.designerService.Session(c.Context(), sessionID)
	if err != nil {
		return handleServiceError(c, err)
	}

	transition := editor.Graph.Transition(editor.ResolveID(transitionID))
	if transition == nil {
		return notFound(c, "Transition not found")
	}

	patch := designer.TransitionPatch{}

	// The config payload is interpreted against the updated condition type
	// when both change in one request.
	conditionType := transition.Condition

	if req.ConditionType != nil {
		conditionType = models.ConditionType(*req.ConditionType)
		if !conditionType.IsValid() {
			return badRequest(c, "Unknown condition type: "+*req.ConditionType)
		}

		patch.Condition = &conditionType
	}

	if len(req.ConditionConfig) > 0 {
		if err := palette.ValidateConditionPayload(conditionType, req.ConditionConfig); err != nil {
			return badRequest(c, err.Error())
		}

		config, err := models.DecodeConditionConfig(conditionType, req.ConditionConfig)
		if err != nil {
			return badRequest(c, err.Error())
		}

		patch.Config = config
	}

	editor, err = h.designerService.UpdateTransition(c.Context(), sessionID, transitionID, patch)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(views.Design(editor))
}

func (h *APIHandlers) DeleteDesignerTransition(c fiber.Ctx) error {
	editor, err := h.designerService.DeleteTransition(c.Context(), c.Params("sessionId"), c.Params("transitionId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(views.Design(editor))
}

func (h *APIHandlers) UpdateDesignerSettings(c fiber.Ctx) error {
	var req UpdateSettingsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	editor, err := h.designerService.UpdateSettings(c.Context(), c.Params("sessionId"), req.Name, req.Description, req.IsActive)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(views.Settings(editor))
}

// SaveDesigner persists the session's template and returns the editor with
// every id resolved to its stored form.
func (h *APIHandlers) SaveDesigner(c fiber.Ctx) error {
	editor, err := h.designerService.Save(c.Context(), c.Params("sessionId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(editor)
}

func (h *APIHandlers) CloseDesigner(c fiber.Ctx) error {
	err := h.designerService.CloseSession(c.Context(), c.Params("sessionId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetPalette returns the stage-type and condition-type catalogs the canvas
// draws from.
func (h *APIHandlers) GetPalette(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"stage_types":     palette.StageTypes(),
		"condition_types": palette.ConditionTypes(),
	})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.templateService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Courseflow API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Courseflow API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
