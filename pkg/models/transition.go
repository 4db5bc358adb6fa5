package models

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/expr-lang/expr"
)

// ConditionType selects how a transition fires once workflow execution runs
// the template. The designer only authors and validates the condition.
type ConditionType string

const (
	ConditionTypeManual      ConditionType = "manual"
	ConditionTypeAutomatic   ConditionType = "automatic"
	ConditionTypeTimer       ConditionType = "timer"
	ConditionTypeApproval    ConditionType = "approval"
	ConditionTypeConditional ConditionType = "conditional"
)

// ConditionTypes lists all valid condition types.
func ConditionTypes() []ConditionType {
	return []ConditionType{
		ConditionTypeManual,
		ConditionTypeAutomatic,
		ConditionTypeTimer,
		ConditionTypeApproval,
		ConditionTypeConditional,
	}
}

func (t ConditionType) IsValid() bool {
	return slices.Contains(ConditionTypes(), t)
}

// ConditionConfig is the per-type payload of a transition condition, one
// variant per ConditionType.
type ConditionConfig interface {
	ConditionType() ConditionType
	Validate() error
}

// ManualCondition requires a user action to fire. No mandatory fields.
type ManualCondition struct{}

func (ManualCondition) ConditionType() ConditionType { return ConditionTypeManual }
func (ManualCondition) Validate() error              { return nil }

// AutomaticCondition fires as soon as the source stage completes.
type AutomaticCondition struct{}

func (AutomaticCondition) ConditionType() ConditionType { return ConditionTypeAutomatic }
func (AutomaticCondition) Validate() error              { return nil }

// TimerCondition fires after a fixed delay.
type TimerCondition struct {
	DelayHours int `json:"delay_hours"`
}

func (TimerCondition) ConditionType() ConditionType { return ConditionTypeTimer }

func (c TimerCondition) Validate() error {
	if c.DelayHours <= 0 {
		return fmt.Errorf("timer delay must be a positive number of hours, got %d", c.DelayHours)
	}

	return nil
}

// ApprovalCondition fires once every required role has signed off.
type ApprovalCondition struct {
	RequiredRoles []ApproverRole `json:"required_roles"`
}

func (ApprovalCondition) ConditionType() ConditionType { return ConditionTypeApproval }

func (c ApprovalCondition) Validate() error {
	for _, role := range c.RequiredRoles {
		if !role.IsValid() {
			return fmt.Errorf("unknown approver role %q", role)
		}
	}

	return nil
}

// ConditionalCondition fires when an expression over the course record
// evaluates truthy. The expression is compiled at authoring time so broken
// templates are caught before they reach execution.
type ConditionalCondition struct {
	Expression string `json:"expression"`
}

func (ConditionalCondition) ConditionType() ConditionType { return ConditionTypeConditional }

func (c ConditionalCondition) Validate() error {
	if c.Expression == "" {
		return fmt.Errorf("conditional transition requires an expression")
	}

	if _, err := expr.Compile(c.Expression); err != nil {
		return fmt.Errorf("invalid condition expression: %w", err)
	}

	return nil
}

// NewConditionConfig returns the zero-value variant for a condition type.
func NewConditionConfig(t ConditionType) (ConditionConfig, error) {
	switch t {
	case ConditionTypeManual:
		return ManualCondition{}, nil
	case ConditionTypeAutomatic:
		return AutomaticCondition{}, nil
	case ConditionTypeTimer:
		return TimerCondition{}, nil
	case ConditionTypeApproval:
		return ApprovalCondition{RequiredRoles: []ApproverRole{}}, nil
	case ConditionTypeConditional:
		return ConditionalCondition{}, nil
	default:
		return nil, fmt.Errorf("unknown condition type %q", t)
	}
}

// DecodeConditionConfig unmarshals a raw payload into the variant selected by
// the condition type. An empty payload decodes to the zero-value variant.
func DecodeConditionConfig(t ConditionType, raw []byte) (ConditionConfig, error) {
	if len(raw) == 0 {
		return NewConditionConfig(t)
	}

	var (
		cfg ConditionConfig
		err error
	)

	switch t {
	case ConditionTypeManual:
		var c ManualCondition

		err = json.Unmarshal(raw, &c)
		cfg = c
	case ConditionTypeAutomatic:
		var c AutomaticCondition

		err = json.Unmarshal(raw, &c)
		cfg = c
	case ConditionTypeTimer:
		var c TimerCondition

		err = json.Unmarshal(raw, &c)
		cfg = c
	case ConditionTypeApproval:
		var c ApprovalCondition

		err = json.Unmarshal(raw, &c)
		cfg = c
	case ConditionTypeConditional:
		var c ConditionalCondition

		err = json.Unmarshal(raw, &c)
		cfg = c
	default:
		return nil, fmt.Errorf("unknown condition type %q", t)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to decode %s condition config: %w", t, err)
	}

	return cfg, nil
}

// Transition is a directed edge between two stages, guarded by a condition.
type Transition struct {
	ID          EntityID        `json:"id"`
	FromStageID EntityID        `json:"from_stage_id"`
	ToStageID   EntityID        `json:"to_stage_id"`
	Condition   ConditionType   `json:"condition_type"`
	Config      ConditionConfig `json:"-"`
}

type transitionJSON struct {
	ID          EntityID        `json:"id"`
	FromStageID EntityID        `json:"from_stage_id"`
	ToStageID   EntityID        `json:"to_stage_id"`
	Condition   ConditionType   `json:"condition_type"`
	Config      json.RawMessage `json:"condition_config,omitempty"`
}

// MarshalJSON encodes the condition config alongside its discriminant so the
// tagged union survives serialization (editor sessions are stored as JSON).
func (tr Transition) MarshalJSON() ([]byte, error) {
	out := transitionJSON{
		ID:          tr.ID,
		FromStageID: tr.FromStageID,
		ToStageID:   tr.ToStageID,
		Condition:   tr.Condition,
	}

	if tr.Config != nil {
		raw, err := json.Marshal(tr.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to encode condition config: %w", err)
		}

		out.Config = raw
	}

	return json.Marshal(out)
}

func (tr *Transition) UnmarshalJSON(data []byte) error {
	var in transitionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	cfg, err := DecodeConditionConfig(in.Condition, in.Config)
	if err != nil {
		return err
	}

	tr.ID = in.ID
	tr.FromStageID = in.FromStageID
	tr.ToStageID = in.ToStageID
	tr.Condition = in.Condition
	tr.Config = cfg

	return nil
}
