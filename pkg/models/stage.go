// Package models defines the core domain models for course workflow templates.
package models

import (
	"fmt"
	"slices"
)

// StageType categorizes a lifecycle stage and drives its default label, icon
// and color on the canvas.
type StageType string

const (
	StageTypePlanning           StageType = "planning"
	StageTypeContentDevelopment StageType = "content_development"
	StageTypeReview             StageType = "review"
	StageTypeApproval           StageType = "approval"
	StageTypeLegalReview        StageType = "legal_review"
	StageTypePublished          StageType = "published"
	StageTypeArchived           StageType = "archived"
)

// StageTypes lists all valid stage types in palette order.
func StageTypes() []StageType {
	return []StageType{
		StageTypePlanning,
		StageTypeContentDevelopment,
		StageTypeReview,
		StageTypeApproval,
		StageTypeLegalReview,
		StageTypePublished,
		StageTypeArchived,
	}
}

func (t StageType) IsValid() bool {
	return slices.Contains(StageTypes(), t)
}

// ApproverRole identifies who may sign off on a stage or an approval
// transition. The set is fixed by the surrounding platform.
type ApproverRole string

const (
	RoleCourseAdmin           ApproverRole = "course_admin"
	RoleInstructionalDesigner ApproverRole = "instructional_designer"
	RoleReviewer              ApproverRole = "reviewer"
	RoleLegalCounsel          ApproverRole = "legal_counsel"
	RolePublisher             ApproverRole = "publisher"
)

// ApproverRoles lists all valid approver roles.
func ApproverRoles() []ApproverRole {
	return []ApproverRole{
		RoleCourseAdmin,
		RoleInstructionalDesigner,
		RoleReviewer,
		RoleLegalCounsel,
		RolePublisher,
	}
}

func (r ApproverRole) IsValid() bool {
	return slices.Contains(ApproverRoles(), r)
}

// Position is a point in canvas coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// StageConfig holds the per-stage settings edited in the Properties panel.
type StageConfig struct {
	RequiredRoles []ApproverRole `json:"required_roles"`
	NotifyOnEnter bool           `json:"notify_on_enter"`
	NotifyOnExit  bool           `json:"notify_on_exit"`
	AutoAdvance   bool           `json:"auto_advance"`
	EstimatedDays *int           `json:"estimated_days,omitempty"`
}

// DefaultStageConfig seeds the config for a freshly created stage.
func DefaultStageConfig() StageConfig {
	return StageConfig{
		RequiredRoles: []ApproverRole{},
	}
}

func (c StageConfig) Validate() error {
	for _, role := range c.RequiredRoles {
		if !role.IsValid() {
			return fmt.Errorf("unknown approver role %q", role)
		}
	}

	if c.EstimatedDays != nil && *c.EstimatedDays < 0 {
		return fmt.Errorf("estimated duration must be >= 0, got %d", *c.EstimatedDays)
	}

	return nil
}

// Stage is a node in the workflow graph: one lifecycle state a course can
// occupy. Position is nil until the layout pass has run; Type may be empty on
// templates loaded from legacy records and is then inferred from
// TechnicalName.
type Stage struct {
	ID            EntityID    `json:"id"`
	TechnicalName string      `json:"technical_name"`
	DisplayName   string      `json:"display_name"`
	Type          StageType   `json:"stage_type,omitempty"`
	IsInitial     bool        `json:"is_initial"`
	IsFinal       bool        `json:"is_final"`
	Position      *Position   `json:"position,omitempty"`
	Config        StageConfig `json:"config"`
}
