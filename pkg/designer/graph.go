// Package designer implements the workflow template designer core: the
// mutable stage/transition graph and the interaction state machine that turns
// pointer gestures into graph mutations.
package designer

import (
	"github.com/openlms/courseflow/pkg/models"
	"github.com/openlms/courseflow/pkg/palette"
)

// Graph holds the stages and transitions of one template under edit. All
// mutations are synchronous and applied in call order; the graph never blocks
// and is owned by exactly one editor session.
type Graph struct {
	Stages      []*models.Stage      `json:"stages"`
	Transitions []*models.Transition `json:"transitions"`
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Stages:      []*models.Stage{},
		Transitions: []*models.Transition{},
	}
}

// GraphFromTemplate adopts a template's stages and transitions. The template
// must already have gone through the layout pass.
func GraphFromTemplate(t *models.Template) *Graph {
	g := NewGraph()
	g.Stages = append(g.Stages, t.Stages...)
	g.Transitions = append(g.Transitions, t.Transitions...)

	return g
}

// Stage returns the stage with the given id, or nil.
func (g *Graph) Stage(id models.EntityID) *models.Stage {
	for _, s := range g.Stages {
		if s.ID.Equal(id) {
			return s
		}
	}

	return nil
}

// Transition returns the transition with the given id, or nil.
func (g *Graph) Transition(id models.EntityID) *models.Transition {
	for _, tr := range g.Transitions {
		if tr.ID.Equal(id) {
			return tr
		}
	}

	return nil
}

// AddStage creates a stage of the given palette type at the given position.
// The first stage added to an empty graph becomes the initial stage.
func (g *Graph) AddStage(stageType models.StageType, pos models.Position) *models.Stage {
	position := pos
	stage := &models.Stage{
		ID:          models.NewPendingID(),
		DisplayName: palette.DefaultLabel(stageType),
		Type:        stageType,
		IsInitial:   len(g.Stages) == 0,
		IsFinal:     false,
		Position:    &position,
		Config:      models.DefaultStageConfig(),
	}

	g.Stages = append(g.Stages, stage)

	return stage
}

// StagePatch is a shallow-merge update for a stage; nil fields are left
// untouched.
type StagePatch struct {
	TechnicalName *string
	DisplayName   *string
	Type          *models.StageType
	IsInitial     *bool
	IsFinal       *bool
	Position      *models.Position
	Config        *models.StageConfig
}

// UpdateStage shallow-merges the patch into the stage. Unknown ids are a
// silent no-op; callers are expected to only pass known ids.
func (g *Graph) UpdateStage(id models.EntityID, patch StagePatch) {
	stage := g.Stage(id)
	if stage == nil {
		return
	}

	if patch.TechnicalName != nil {
		stage.TechnicalName = *patch.TechnicalName
	}

	if patch.DisplayName != nil {
		stage.DisplayName = *patch.DisplayName
	}

	if patch.Type != nil {
		stage.Type = *patch.Type
	}

	if patch.IsInitial != nil {
		stage.IsInitial = *patch.IsInitial
	}

	if patch.IsFinal != nil {
		stage.IsFinal = *patch.IsFinal
	}

	if patch.Position != nil {
		position := *patch.Position
		stage.Position = &position
	}

	if patch.Config != nil {
		stage.Config = *patch.Config
	}
}

// DeleteStage removes the stage and, in the same operation, every transition
// referencing it as either endpoint. The cascade is atomic here so the
// no-dangling-edges invariant holds even if the caller forgets the edges.
// Returns the ids of the removed transitions.
func (g *Graph) DeleteStage(id models.EntityID) []models.EntityID {
	idx := -1

	for i, s := range g.Stages {
		if s.ID.Equal(id) {
			idx = i

			break
		}
	}

	if idx < 0 {
		return nil
	}

	g.Stages = append(g.Stages[:idx], g.Stages[idx+1:]...)

	removed := make([]models.EntityID, 0)
	kept := g.Transitions[:0]

	for _, tr := range g.Transitions {
		if tr.FromStageID.Equal(id) || tr.ToStageID.Equal(id) {
			removed = append(removed, tr.ID)

			continue
		}

		kept = append(kept, tr)
	}

	g.Transitions = kept

	return removed
}

// AddTransition creates a manual transition between two existing stages.
// Self-loops and unknown endpoints are rejected with a nil result; the
// interaction controller prevents them upstream, this is the defensive
// backstop.
func (g *Graph) AddTransition(from, to models.EntityID) *models.Transition {
	if from.Equal(to) {
		return nil
	}

	if g.Stage(from) == nil || g.Stage(to) == nil {
		return nil
	}

	tr := &models.Transition{
		ID:          models.NewPendingID(),
		FromStageID: from,
		ToStageID:   to,
		Condition:   models.ConditionTypeManual,
		Config:      models.ManualCondition{},
	}

	g.Transitions = append(g.Transitions, tr)

	return tr
}

// TransitionPatch updates a transition's condition.
type TransitionPatch struct {
	Condition *models.ConditionType
	Config    models.ConditionConfig
}

// UpdateTransition applies the patch; silent no-op on unknown ids. Changing
// the condition type without supplying a config resets the config to the new
// type's zero-value variant.
func (g *Graph) UpdateTransition(id models.EntityID, patch TransitionPatch) {
	tr := g.Transition(id)
	if tr == nil {
		return
	}

	if patch.Condition != nil && patch.Condition.IsValid() {
		tr.Condition = *patch.Condition

		if patch.Config == nil {
			cfg, err := models.NewConditionConfig(tr.Condition)
			if err == nil {
				tr.Config = cfg
			}
		}
	}

	if patch.Config != nil && patch.Config.ConditionType() == tr.Condition {
		tr.Config = patch.Config
	}
}

// DeleteTransition removes a transition by id. Reports whether anything was
// removed.
func (g *Graph) DeleteTransition(id models.EntityID) bool {
	for i, tr := range g.Transitions {
		if tr.ID.Equal(id) {
			g.Transitions = append(g.Transitions[:i], g.Transitions[i+1:]...)

			return true
		}
	}

	return false
}

// OutgoingCount returns the number of transitions leaving a stage.
func (g *Graph) OutgoingCount(id models.EntityID) int {
	count := 0

	for _, tr := range g.Transitions {
		if tr.FromStageID.Equal(id) {
			count++
		}
	}

	return count
}
