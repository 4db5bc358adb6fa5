// Package wire implements the template wire format shared with the
// persistence backend. Stages travel as flat snake_case records with the
// structured state_config transmitted as an encoded JSON string; the codec
// guarantees a lossless round-trip of the structured config.
package wire

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/openlms/courseflow/pkg/models"
	"github.com/openlms/courseflow/pkg/palette"
)

// Stage is the wire shape of one stage.
type Stage struct {
	ID          string   `json:"id,omitempty"`
	StateName   string   `json:"state_name"`
	DisplayName string   `json:"display_name"`
	StageType   string   `json:"stage_type,omitempty"`
	IsInitial   bool     `json:"is_initial"`
	IsFinal     bool     `json:"is_final"`
	PositionX   *float64 `json:"position_x,omitempty"`
	PositionY   *float64 `json:"position_y,omitempty"`
	StateConfig string   `json:"state_config,omitempty"`
}

// Transition is the wire shape of one transition.
type Transition struct {
	ID              string `json:"id,omitempty"`
	FromStageID     string `json:"from_stage_id"`
	ToStageID       string `json:"to_stage_id"`
	ConditionType   string `json:"condition_type"`
	ConditionConfig string `json:"condition_config,omitempty"`
}

// Template is the wire shape of one template record.
type Template struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	IsActive    bool         `json:"is_active"`
	Stages      []Stage      `json:"stages"`
	Transitions []Transition `json:"transitions"`
	CreatedAt   time.Time    `json:"created_at,omitempty"`
	UpdatedAt   time.Time    `json:"updated_at,omitempty"`
}

// Encode serializes a template to the wire format. Stage and transition ids
// are transmitted as-is, pending or not; the backend replaces client ids with
// its own on first save. A pending template id is omitted so the backend
// creates rather than updates.
func Encode(t *models.Template) (*Template, error) {
	out := &Template{
		Name:        t.Name,
		Description: t.Description,
		IsActive:    t.IsActive,
		Stages:      make([]Stage, 0, len(t.Stages)),
		Transitions: make([]Transition, 0, len(t.Transitions)),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}

	if t.ID.Persisted {
		out.ID = t.ID.Value
	}

	for _, s := range t.Stages {
		configRaw, err := json.Marshal(s.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to encode config of stage %s: %w", s.ID, err)
		}

		ws := Stage{
			ID:          s.ID.Value,
			StateName:   s.TechnicalName,
			DisplayName: s.DisplayName,
			StageType:   string(s.Type),
			IsInitial:   s.IsInitial,
			IsFinal:     s.IsFinal,
			StateConfig: string(configRaw),
		}

		if s.Position != nil {
			x, y := s.Position.X, s.Position.Y
			ws.PositionX = &x
			ws.PositionY = &y
		}

		out.Stages = append(out.Stages, ws)
	}

	for _, tr := range t.Transitions {
		wt := Transition{
			ID:            tr.ID.Value,
			FromStageID:   tr.FromStageID.Value,
			ToStageID:     tr.ToStageID.Value,
			ConditionType: string(tr.Condition),
		}

		if tr.Config != nil {
			configRaw, err := json.Marshal(tr.Config)
			if err != nil {
				return nil, fmt.Errorf("failed to encode config of transition %s: %w", tr.ID, err)
			}

			wt.ConditionConfig = string(configRaw)
		}

		out.Transitions = append(out.Transitions, wt)
	}

	return out, nil
}

// Decode deserializes a fetched template into the domain model. All incoming
// ids are backend-assigned and therefore persisted. Transition endpoints must
// resolve to stages in the same record; a record violating that is rejected
// wholesale so no partial graph is ever constructed.
func Decode(w *Template) (*models.Template, error) {
	t := &models.Template{
		ID:          models.PersistedID(w.ID),
		Name:        w.Name,
		Description: w.Description,
		IsActive:    w.IsActive,
		Stages:      make([]*models.Stage, 0, len(w.Stages)),
		Transitions: make([]*models.Transition, 0, len(w.Transitions)),
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}

	stageIDs := make(map[string]struct{}, len(w.Stages))

	for _, ws := range w.Stages {
		if ws.ID == "" {
			return nil, fmt.Errorf("stage %q has no id", ws.StateName)
		}

		if _, dup := stageIDs[ws.ID]; dup {
			return nil, fmt.Errorf("duplicate stage id %s", ws.ID)
		}

		stageIDs[ws.ID] = struct{}{}

		stageType := models.StageType(ws.StageType)
		if ws.StageType != "" && !stageType.IsValid() {
			return nil, fmt.Errorf("stage %s has unknown stage type %q", ws.ID, ws.StageType)
		}

		config := models.DefaultStageConfig()

		if ws.StateConfig != "" {
			if err := json.Unmarshal([]byte(ws.StateConfig), &config); err != nil {
				return nil, fmt.Errorf("failed to decode config of stage %s: %w", ws.ID, err)
			}
		}

		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config of stage %s: %w", ws.ID, err)
		}

		s := &models.Stage{
			ID:            models.PersistedID(ws.ID),
			TechnicalName: ws.StateName,
			DisplayName:   ws.DisplayName,
			Type:          stageType,
			IsInitial:     ws.IsInitial,
			IsFinal:       ws.IsFinal,
			Config:        config,
		}

		if ws.PositionX != nil && ws.PositionY != nil {
			s.Position = &models.Position{X: *ws.PositionX, Y: *ws.PositionY}
		}

		t.Stages = append(t.Stages, s)
	}

	for _, wt := range w.Transitions {
		if wt.ID == "" {
			return nil, fmt.Errorf("transition %s->%s has no id", wt.FromStageID, wt.ToStageID)
		}

		if _, ok := stageIDs[wt.FromStageID]; !ok {
			return nil, fmt.Errorf("transition %s references unknown source stage %s", wt.ID, wt.FromStageID)
		}

		if _, ok := stageIDs[wt.ToStageID]; !ok {
			return nil, fmt.Errorf("transition %s references unknown target stage %s", wt.ID, wt.ToStageID)
		}

		conditionType := models.ConditionType(wt.ConditionType)
		if !conditionType.IsValid() {
			return nil, fmt.Errorf("transition %s has unknown condition type %q", wt.ID, wt.ConditionType)
		}

		if err := palette.ValidateConditionPayload(conditionType, []byte(wt.ConditionConfig)); err != nil {
			return nil, fmt.Errorf("transition %s: %w", wt.ID, err)
		}

		config, err := models.DecodeConditionConfig(conditionType, []byte(wt.ConditionConfig))
		if err != nil {
			return nil, fmt.Errorf("transition %s: %w", wt.ID, err)
		}

		t.Transitions = append(t.Transitions, &models.Transition{
			ID:          models.PersistedID(wt.ID),
			FromStageID: models.PersistedID(wt.FromStageID),
			ToStageID:   models.PersistedID(wt.ToStageID),
			Condition:   conditionType,
			Config:      config,
		})
	}

	return t, nil
}
