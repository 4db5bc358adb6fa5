package designer

import (
	"fmt"

	"github.com/openlms/courseflow/pkg/models"
)

// EventType identifies one discrete designer input event.
type EventType string

const (
	EventClickCanvas           EventType = "click_canvas"
	EventClickStage            EventType = "click_stage"
	EventClickTransitionMarker EventType = "click_transition_marker"
	EventToggleConnectMode     EventType = "toggle_connect_mode"
	EventBeginDrag             EventType = "begin_drag"
	EventDrop                  EventType = "drop"
	EventCancelDrag            EventType = "cancel_drag"
	EventAddStage              EventType = "add_stage"
)

// Event is the envelope for one pointer/gesture event delivered to an editor
// session. Fields are interpreted per event type; unused fields are ignored.
type Event struct {
	Type         EventType        `json:"type"`
	StageID      string           `json:"stage_id,omitempty"`
	TransitionID string           `json:"transition_id,omitempty"`
	StageType    models.StageType `json:"stage_type,omitempty"`
	Position     *models.Position `json:"position,omitempty"`
}

// Apply dispatches an event to the editor. Events arrive one at a time and
// mutate the graph synchronously, preserving FIFO ordering.
func (e *Editor) Apply(ev Event) error {
	switch ev.Type {
	case EventClickCanvas:
		e.ClickCanvas()
	case EventClickStage:
		if ev.StageID == "" {
			return fmt.Errorf("%s event requires stage_id", ev.Type)
		}

		e.ClickStage(e.ResolveID(ev.StageID))
	case EventClickTransitionMarker:
		if ev.TransitionID == "" {
			return fmt.Errorf("%s event requires transition_id", ev.Type)
		}

		e.ClickTransitionMarker(e.ResolveID(ev.TransitionID))
	case EventToggleConnectMode:
		e.ToggleConnectMode()
	case EventBeginDrag:
		if ev.StageID == "" {
			return fmt.Errorf("%s event requires stage_id", ev.Type)
		}

		e.BeginDrag(e.ResolveID(ev.StageID))
	case EventDrop:
		if ev.Position == nil {
			return fmt.Errorf("%s event requires a position", ev.Type)
		}

		e.Drop(*ev.Position)
	case EventCancelDrag:
		e.CancelDrag()
	case EventAddStage:
		if !ev.StageType.IsValid() {
			return fmt.Errorf("%s event requires a valid stage_type", ev.Type)
		}

		if ev.Position == nil {
			return fmt.Errorf("%s event requires a position", ev.Type)
		}

		e.AddStage(ev.StageType, *ev.Position)
	default:
		return fmt.Errorf("unknown designer event type %q", ev.Type)
	}

	return nil
}

// ResolveID maps a wire id string onto the matching entity id in the graph,
// preserving its pending/persisted state. Unmatched ids resolve to a
// persisted id that the graph will treat as unknown (no-op).
func (e *Editor) ResolveID(value string) models.EntityID {
	for _, s := range e.Graph.Stages {
		if s.ID.Value == value {
			return s.ID
		}
	}

	for _, tr := range e.Graph.Transitions {
		if tr.ID.Value == value {
			return tr.ID
		}
	}

	return models.PersistedID(value)
}
