// Package web provides HTTP request and response types for the template
// designer API.
package web

import (
	"encoding/json"

	"github.com/openlms/courseflow/pkg/models"
)

// CreateTemplateRequest represents the request body for creating a new template.
type CreateTemplateRequest struct {
	Name        string `json:"name"        validate:"required,min=3"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

// UpdateTemplateRequest represents the request body for updating template
// metadata. All fields are optional to support partial updates.
type UpdateTemplateRequest struct {
	Name        *string `json:"name,omitempty"        validate:"omitempty,min=3"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// OpenDraftRequest represents the request body for opening a designer session
// over a template that has never been saved.
type OpenDraftRequest struct {
	Name        string `json:"name"        validate:"omitempty,min=3"`
	Description string `json:"description"`
}

// DesignerEventRequest is the pointer/gesture event envelope delivered to an
// open designer session.
type DesignerEventRequest struct {
	Type         string           `json:"type"                    validate:"required"`
	StageID      string           `json:"stage_id,omitempty"`
	TransitionID string           `json:"transition_id,omitempty"`
	StageType    string           `json:"stage_type,omitempty"`
	Position     *models.Position `json:"position,omitempty"`
}

// UpdateStageRequest represents a properties-panel edit of a stage. All
// fields are optional; only present fields are applied.
type UpdateStageRequest struct {
	TechnicalName *string             `json:"technical_name,omitempty"`
	DisplayName   *string             `json:"display_name,omitempty"   validate:"omitempty,min=1"`
	StageType     *string             `json:"stage_type,omitempty"`
	IsInitial     *bool               `json:"is_initial,omitempty"`
	IsFinal       *bool               `json:"is_final,omitempty"`
	Position      *models.Position    `json:"position,omitempty"`
	Config        *models.StageConfig `json:"config,omitempty"`
}

// UpdateTransitionRequest represents a properties-panel edit of a transition.
// ConditionConfig is interpreted against the transition's (possibly updated)
// condition type.
type UpdateTransitionRequest struct {
	ConditionType   *string         `json:"condition_type,omitempty"`
	ConditionConfig json.RawMessage `json:"condition_config,omitempty"`
}

// UpdateSettingsRequest represents an edit of the settings projection.
type UpdateSettingsRequest struct {
	Name        *string `json:"name,omitempty"        validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}
