package designer

import "github.com/openlms/courseflow/pkg/models"

// Editor is one editing session over one template: the graph under edit, the
// template-level metadata, and the transient session state. All mutations are
// synchronous; the only asynchrony in the designer lives at the load/save
// boundary, outside this type.
type Editor struct {
	TemplateID  models.EntityID `json:"template_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	IsActive    bool            `json:"is_active"`
	Graph       *Graph          `json:"graph"`
	Session     *Session        `json:"session"`
}

// NewEditor opens an editing session over a loaded template. The template is
// expected to have gone through the layout pass already.
func NewEditor(sessionID string, t *models.Template) *Editor {
	return &Editor{
		TemplateID:  t.ID,
		Name:        t.Name,
		Description: t.Description,
		IsActive:    t.IsActive,
		Graph:       GraphFromTemplate(t),
		Session:     NewSession(sessionID),
	}
}

// Template assembles the current editor state back into a template value for
// serialization.
func (e *Editor) Template() *models.Template {
	return &models.Template{
		ID:          e.TemplateID,
		Name:        e.Name,
		Description: e.Description,
		IsActive:    e.IsActive,
		Stages:      e.Graph.Stages,
		Transitions: e.Graph.Transitions,
	}
}

// AddStage creates a stage from a palette entry and selects it.
func (e *Editor) AddStage(stageType models.StageType, pos models.Position) *models.Stage {
	stage := e.Graph.AddStage(stageType, pos)
	e.Session.SelectStage(stage.ID)

	return stage
}

// UpdateStage forwards a properties-panel edit to the graph.
func (e *Editor) UpdateStage(id models.EntityID, patch StagePatch) {
	e.Graph.UpdateStage(id, patch)
}

// DeleteStage removes a stage with its transition cascade and clears the
// selection if it pointed at the stage or one of the cascaded transitions.
func (e *Editor) DeleteStage(id models.EntityID) {
	removed := e.Graph.DeleteStage(id)

	if e.Session.SelectedStage.Equal(id) && !id.IsZero() {
		e.Session.ClearSelection()
	}

	for _, trID := range removed {
		if e.Session.SelectedTransition.Equal(trID) {
			e.Session.ClearSelection()
		}
	}

	if e.Session.ConnectSource.Equal(id) && !id.IsZero() {
		e.Session.ConnectSource = models.EntityID{}
	}
}

// UpdateTransition forwards a properties-panel edit to the graph.
func (e *Editor) UpdateTransition(id models.EntityID, patch TransitionPatch) {
	e.Graph.UpdateTransition(id, patch)
}

// DeleteTransition removes a transition and clears the selection if it was
// selected.
func (e *Editor) DeleteTransition(id models.EntityID) {
	if !e.Graph.DeleteTransition(id) {
		return
	}

	if e.Session.SelectedTransition.Equal(id) {
		e.Session.ClearSelection()
	}
}

// ClickCanvas handles a click on empty canvas: clears the selection.
func (e *Editor) ClickCanvas() {
	if e.Session.Mode != ModeIdle {
		return
	}

	e.Session.ClearSelection()
}

// ClickStage handles a click on a stage. In connect mode the first click
// records the pending source and the second click on a different stage
// completes the transition and exits connect mode; re-toggling is required
// for further edges, a deliberate friction against accidental chains.
// Outside connect mode the click selects the stage.
func (e *Editor) ClickStage(id models.EntityID) {
	if e.Graph.Stage(id) == nil {
		return
	}

	if e.Session.Mode == ModeConnecting {
		if e.Session.ConnectSource.IsZero() || e.Session.ConnectSource.Equal(id) {
			e.Session.ConnectSource = id

			return
		}

		if tr := e.Graph.AddTransition(e.Session.ConnectSource, id); tr != nil {
			e.Session.SelectTransition(tr.ID)
		}

		e.Session.ConnectSource = models.EntityID{}
		e.Session.Mode = ModeIdle

		return
	}

	e.Session.SelectStage(id)
}

// ClickTransitionMarker handles a click on a transition's midpoint marker:
// the transition is deleted immediately, a lightweight "x" affordance with no
// confirmation step.
func (e *Editor) ClickTransitionMarker(id models.EntityID) {
	if e.Session.Mode != ModeIdle {
		return
	}

	e.DeleteTransition(id)
}

// ToggleConnectMode switches connect mode on or off. Toggling off discards
// any pending source without touching the graph.
func (e *Editor) ToggleConnectMode() {
	if e.Session.Mode == ModeConnecting {
		e.Session.Mode = ModeIdle
		e.Session.ConnectSource = models.EntityID{}

		return
	}

	if e.Session.Mode != ModeIdle {
		return
	}

	e.Session.Mode = ModeConnecting
}

// BeginDrag starts dragging a stage. Only one stage may be dragged at a time;
// the pointer protocol guarantees drag end precedes the next drag start.
func (e *Editor) BeginDrag(id models.EntityID) {
	if e.Session.Mode != ModeIdle {
		return
	}

	if e.Graph.Stage(id) == nil {
		return
	}

	e.Session.Mode = ModeDragging
	e.Session.DraggingStage = id
}

// Drop completes a drag at the given canvas-local point. Dropping outside the
// current canvas bounds is permitted; the canvas grows to follow content
// rather than clamping.
func (e *Editor) Drop(point models.Position) {
	if e.Session.Mode != ModeDragging {
		return
	}

	id := e.Session.DraggingStage
	e.Session.Mode = ModeIdle
	e.Session.DraggingStage = models.EntityID{}

	e.Graph.UpdateStage(id, StagePatch{Position: &point})
}

// CancelDrag abandons a drag without mutating the graph, e.g. when the user
// navigates away mid-gesture.
func (e *Editor) CancelDrag() {
	if e.Session.Mode != ModeDragging {
		return
	}

	e.Session.Mode = ModeIdle
	e.Session.DraggingStage = models.EntityID{}
}
