package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/openlms/courseflow/pkg/designer"
	"github.com/openlms/courseflow/pkg/models"
	"github.com/openlms/courseflow/pkg/sessionstore"
)

// Designer manages editor sessions: opening one over a stored template,
// routing interaction events into it, and saving it back through the template
// service. The editor itself is synchronous; this service owns the only
// asynchronous boundary (load and save).
type Designer struct {
	templates *Template
	sessions  sessionstore.Store
	logger    *slog.Logger
}

// NewDesigner creates a new designer service.
func NewDesigner(templates *Template, sessions sessionstore.Store, logger *slog.Logger) *Designer {
	return &Designer{
		templates: templates,
		sessions:  sessions,
		logger:    logger,
	}
}

// OpenSession loads a template and opens a fresh editor session over it.
func (s *Designer) OpenSession(ctx context.Context, templateID string) (*designer.Editor, error) {
	template, err := s.templates.FetchByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	editor := designer.NewEditor(uuid.New().String(), template)

	if err := s.sessions.Put(ctx, editor); err != nil {
		return nil, fmt.Errorf("failed to store editor session: %w", err)
	}

	return editor, nil
}

// OpenDraftSession opens an editor session over a brand-new template that has
// never been persisted. The template id stays pending until the first save.
func (s *Designer) OpenDraftSession(ctx context.Context, name, description string) (*designer.Editor, error) {
	template := models.NewTemplate(name, description)
	editor := designer.NewEditor(uuid.New().String(), template)

	if err := s.sessions.Put(ctx, editor); err != nil {
		return nil, fmt.Errorf("failed to store editor session: %w", err)
	}

	return editor, nil
}

// Session retrieves an open editor session by id.
func (s *Designer) Session(ctx context.Context, sessionID string) (*designer.Editor, error) {
	return s.sessions.Get(ctx, sessionID)
}

// ApplyEvent applies one interaction event to a session and stores the
// resulting state.
func (s *Designer) ApplyEvent(ctx context.Context, sessionID string, event designer.Event) (*designer.Editor, error) {
	editor, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := editor.Apply(event); err != nil {
		return nil, NewValidationError("ApplyEvent", "invalid_event", err.Error(), ErrInvalidEvent)
	}

	if err := s.sessions.Put(ctx, editor); err != nil {
		return nil, fmt.Errorf("failed to store editor session: %w", err)
	}

	return editor, nil
}

// UpdateStage applies a properties-panel edit to a stage and stores the
// session.
func (s *Designer) UpdateStage(ctx context.Context, sessionID, stageID string, patch designer.StagePatch) (*designer.Editor, error) {
	return s.mutate(ctx, sessionID, func(e *designer.Editor) {
		e.UpdateStage(e.ResolveID(stageID), patch)
	})
}

// DeleteStage removes a stage with its transition cascade and stores the
// session.
func (s *Designer) DeleteStage(ctx context.Context, sessionID, stageID string) (*designer.Editor, error) {
	return s.mutate(ctx, sessionID, func(e *designer.Editor) {
		e.DeleteStage(e.ResolveID(stageID))
	})
}

// UpdateTransition applies a properties-panel edit to a transition and stores
// the session.
func (s *Designer) UpdateTransition(ctx context.Context, sessionID, transitionID string, patch designer.TransitionPatch) (*designer.Editor, error) {
	return s.mutate(ctx, sessionID, func(e *designer.Editor) {
		e.UpdateTransition(e.ResolveID(transitionID), patch)
	})
}

// DeleteTransition removes a transition and stores the session.
func (s *Designer) DeleteTransition(ctx context.Context, sessionID, transitionID string) (*designer.Editor, error) {
	return s.mutate(ctx, sessionID, func(e *designer.Editor) {
		e.DeleteTransition(e.ResolveID(transitionID))
	})
}

// UpdateSettings applies template-level metadata edits from the settings
// projection.
func (s *Designer) UpdateSettings(ctx context.Context, sessionID string, name, description *string, isActive *bool) (*designer.Editor, error) {
	return s.mutate(ctx, sessionID, func(e *designer.Editor) {
		if name != nil {
			e.Name = *name
		}

		if description != nil {
			e.Description = *description
		}

		if isActive != nil {
			e.IsActive = *isActive
		}
	})
}

func (s *Designer) mutate(ctx context.Context, sessionID string, fn func(*designer.Editor)) (*designer.Editor, error) {
	editor, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	fn(editor)

	if err := s.sessions.Put(ctx, editor); err != nil {
		return nil, fmt.Errorf("failed to store editor session: %w", err)
	}

	return editor, nil
}

// Save persists the session's template. A session accepts one save at a time:
// a second save while the first is in flight fails with ErrSaveInProgress. On
// success the editor graph is rebuilt from the stored echo, resolving every
// pending id to its persisted form; on failure the graph is left untouched so
// no edits are lost.
func (s *Designer) Save(ctx context.Context, sessionID string) (*designer.Editor, error) {
	editor, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if editor.Session.Saving {
		return nil, ErrSaveInProgress
	}

	editor.Session.Saving = true
	if err := s.sessions.Put(ctx, editor); err != nil {
		return nil, fmt.Errorf("failed to store editor session: %w", err)
	}

	saved, saveErr := s.templates.Save(ctx, editor.Template())

	editor.Session.Saving = false

	if saveErr == nil {
		editor.TemplateID = saved.ID
		editor.Name = saved.Name
		editor.Description = saved.Description
		editor.IsActive = saved.IsActive
		editor.Graph = designer.GraphFromTemplate(saved)
		editor.Session.ClearSelection()
		editor.Session.ConnectSource = models.EntityID{}
		editor.Session.Mode = designer.ModeIdle
		editor.Session.DraggingStage = models.EntityID{}
	}

	if err := s.sessions.Put(ctx, editor); err != nil {
		return nil, fmt.Errorf("failed to store editor session: %w", err)
	}

	if saveErr != nil {
		return nil, saveErr
	}

	return editor, nil
}

// CloseSession discards an editor session. Unsaved edits are lost.
func (s *Designer) CloseSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}
