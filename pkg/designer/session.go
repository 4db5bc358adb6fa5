package designer

import "github.com/openlms/courseflow/pkg/models"

// Mode is the interaction mode of an editor session.
type Mode string

const (
	ModeIdle       Mode = "idle"
	ModeDragging   Mode = "dragging"
	ModeConnecting Mode = "connecting"
)

// Session holds the transient UI state of one editing session: interaction
// mode, selection, pending connect source and the in-flight-save flag. It is
// deliberately separate from the Template so persisted records never carry
// editor-only state.
type Session struct {
	ID                 string          `json:"id"`
	Mode               Mode            `json:"mode"`
	SelectedStage      models.EntityID `json:"selected_stage"`
	SelectedTransition models.EntityID `json:"selected_transition"`
	ConnectSource      models.EntityID `json:"connect_source"`
	DraggingStage      models.EntityID `json:"dragging_stage"`
	Saving             bool            `json:"saving"`
}

// NewSession creates an idle session with the given id.
func NewSession(id string) *Session {
	return &Session{
		ID:   id,
		Mode: ModeIdle,
	}
}

// SelectStage makes the stage the exclusive selection.
func (s *Session) SelectStage(id models.EntityID) {
	s.SelectedStage = id
	s.SelectedTransition = models.EntityID{}
}

// SelectTransition makes the transition the exclusive selection.
func (s *Session) SelectTransition(id models.EntityID) {
	s.SelectedTransition = id
	s.SelectedStage = models.EntityID{}
}

// ClearSelection deselects everything.
func (s *Session) ClearSelection() {
	s.SelectedStage = models.EntityID{}
	s.SelectedTransition = models.EntityID{}
}
