package services

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openlms/courseflow/pkg/designer"
	"github.com/openlms/courseflow/pkg/eventbus"
	"github.com/openlms/courseflow/pkg/mocks"
	"github.com/openlms/courseflow/pkg/models"
	"github.com/openlms/courseflow/pkg/persistence/file"
	"github.com/openlms/courseflow/pkg/sessionstore"
)

func newDesignerService(t *testing.T) *Designer {
	t.Helper()

	logger := slog.Default()
	templates := NewTemplate(file.NewPersistence(t.TempDir()), eventbus.NewGoChannelEventBus(logger), logger)

	return NewDesigner(templates, sessionstore.NewMemoryStore(), logger)
}

func TestOpenDraftSession(t *testing.T) {
	service := newDesignerService(t)

	editor, err := service.OpenDraftSession(t.Context(), "New Flow", "draft")
	require.NoError(t, err)

	assert.NotEmpty(t, editor.Session.ID)
	assert.False(t, editor.TemplateID.Persisted)
	assert.Empty(t, editor.Graph.Stages)

	loaded, err := service.Session(t.Context(), editor.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Flow", loaded.Name)
}

func TestOpenSessionLoadsTemplate(t *testing.T) {
	service := newDesignerService(t)

	saved, err := service.templates.Save(t.Context(), draftTemplate())
	require.NoError(t, err)

	editor, err := service.OpenSession(t.Context(), saved.ID.Value)
	require.NoError(t, err)

	assert.True(t, editor.TemplateID.Persisted)
	assert.Len(t, editor.Graph.Stages, 2)
	assert.Len(t, editor.Graph.Transitions, 1)
	assert.Equal(t, designer.ModeIdle, editor.Session.Mode)
}

func TestOpenSessionMissingTemplate(t *testing.T) {
	service := newDesignerService(t)

	_, err := service.OpenSession(t.Context(), "missing")
	assert.Error(t, err)
}

func TestApplyEventPersistsSession(t *testing.T) {
	service := newDesignerService(t)

	editor, err := service.OpenDraftSession(t.Context(), "Flow", "")
	require.NoError(t, err)

	_, err = service.ApplyEvent(t.Context(), editor.Session.ID, designer.Event{
		Type:      designer.EventAddStage,
		StageType: models.StageTypePlanning,
		Position:  &models.Position{X: 120, Y: 80},
	})
	require.NoError(t, err)

	loaded, err := service.Session(t.Context(), editor.Session.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Graph.Stages, 1)
	assert.True(t, loaded.Graph.Stages[0].IsInitial)
}

func TestApplyEventInvalid(t *testing.T) {
	service := newDesignerService(t)

	editor, err := service.OpenDraftSession(t.Context(), "Flow", "")
	require.NoError(t, err)

	_, err = service.ApplyEvent(t.Context(), editor.Session.ID, designer.Event{Type: "teleport"})
	assert.True(t, IsValidationError(err))
}

func TestApplyEventUnknownSession(t *testing.T) {
	service := newDesignerService(t)

	_, err := service.ApplyEvent(t.Context(), "missing", designer.Event{Type: designer.EventClickCanvas})
	assert.True(t, sessionstore.IsSessionNotFound(err))
}

func TestSaveResolvesPendingIDs(t *testing.T) {
	service := newDesignerService(t)

	editor, err := service.OpenDraftSession(t.Context(), "Flow", "")
	require.NoError(t, err)

	sessionID := editor.Session.ID

	_, err = service.ApplyEvent(t.Context(), sessionID, designer.Event{
		Type:      designer.EventAddStage,
		StageType: models.StageTypePlanning,
		Position:  &models.Position{X: 100, Y: 100},
	})
	require.NoError(t, err)

	saved, err := service.Save(t.Context(), sessionID)
	require.NoError(t, err)

	assert.True(t, saved.TemplateID.Persisted)
	require.Len(t, saved.Graph.Stages, 1)
	assert.True(t, saved.Graph.Stages[0].ID.Persisted)

	// Selection is cleared along with the stale pending ids it pointed at
	assert.True(t, saved.Session.SelectedStage.IsZero())
	assert.False(t, saved.Session.Saving)

	// Second save is an update of the same record
	again, err := service.Save(t.Context(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, saved.TemplateID, again.TemplateID)
}

func TestSaveRejectsConcurrentSave(t *testing.T) {
	service := newDesignerService(t)

	editor, err := service.OpenDraftSession(t.Context(), "Flow", "")
	require.NoError(t, err)

	editor.Session.Saving = true
	require.NoError(t, service.sessions.Put(t.Context(), editor))

	_, err = service.Save(t.Context(), editor.Session.ID)
	assert.True(t, IsConflictError(err))
}

func TestSaveFailureLeavesGraphUntouched(t *testing.T) {
	logger := slog.Default()

	repo := &mocks.MockTemplateRepository{}
	repo.On("Save", mock.Anything, mock.Anything).Return(nil, errors.New("storage offline"))

	p := &mocks.MockPersistence{}
	p.On("TemplateRepository").Return(repo)

	templates := NewTemplate(p, eventbus.NewGoChannelEventBus(logger), logger)
	service := NewDesigner(templates, sessionstore.NewMemoryStore(), logger)

	editor, err := service.OpenDraftSession(t.Context(), "Flow", "")
	require.NoError(t, err)

	sessionID := editor.Session.ID

	_, err = service.ApplyEvent(t.Context(), sessionID, designer.Event{
		Type:      designer.EventAddStage,
		StageType: models.StageTypeReview,
		Position:  &models.Position{X: 100, Y: 100},
	})
	require.NoError(t, err)

	_, err = service.Save(t.Context(), sessionID)
	require.Error(t, err)

	// The session is usable again and no edits were lost
	loaded, err := service.Session(t.Context(), sessionID)
	require.NoError(t, err)
	assert.False(t, loaded.Session.Saving)
	require.Len(t, loaded.Graph.Stages, 1)
	assert.False(t, loaded.Graph.Stages[0].ID.Persisted)
	assert.False(t, loaded.TemplateID.Persisted)
}

func TestUpdateStageThroughService(t *testing.T) {
	service := newDesignerService(t)

	editor, err := service.OpenDraftSession(t.Context(), "Flow", "")
	require.NoError(t, err)

	sessionID := editor.Session.ID

	updated, err := service.ApplyEvent(t.Context(), sessionID, designer.Event{
		Type:      designer.EventAddStage,
		StageType: models.StageTypePlanning,
		Position:  &models.Position{X: 100, Y: 100},
	})
	require.NoError(t, err)

	stageID := updated.Graph.Stages[0].ID.Value
	name := "Kickoff"

	updated, err = service.UpdateStage(t.Context(), sessionID, stageID, designer.StagePatch{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Kickoff", updated.Graph.Stages[0].DisplayName)

	updated, err = service.DeleteStage(t.Context(), sessionID, stageID)
	require.NoError(t, err)
	assert.Empty(t, updated.Graph.Stages)
}

func TestUpdateSettingsThroughService(t *testing.T) {
	service := newDesignerService(t)

	editor, err := service.OpenDraftSession(t.Context(), "Flow", "")
	require.NoError(t, err)

	name := "Renamed"
	active := true

	updated, err := service.UpdateSettings(t.Context(), editor.Session.ID, &name, nil, &active)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.True(t, updated.IsActive)
	assert.Empty(t, updated.Description)
}

func TestCloseSession(t *testing.T) {
	service := newDesignerService(t)

	editor, err := service.OpenDraftSession(t.Context(), "Flow", "")
	require.NoError(t, err)

	require.NoError(t, service.CloseSession(t.Context(), editor.Session.ID))

	_, err = service.Session(t.Context(), editor.Session.ID)
	assert.True(t, sessionstore.IsSessionNotFound(err))
}
