package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlms/courseflow/pkg/persistence"
	"github.com/openlms/courseflow/pkg/wire"
)

func newTestRecord() *wire.Template {
	return &wire.Template{
		Name: "Course Lifecycle",
		Stages: []wire.Stage{
			{ID: "client-a", StateName: "planning", StageType: "planning", IsInitial: true},
			{ID: "client-b", StateName: "published", StageType: "published", IsFinal: true},
		},
		Transitions: []wire.Transition{
			{ID: "client-tr", FromStageID: "client-a", ToStageID: "client-b", ConditionType: "manual"},
		},
	}
}

func TestSaveAssignsServerIDs(t *testing.T) {
	repo := NewTemplateRepository(t.TempDir())

	stored, err := repo.Save(t.Context(), newTestRecord())
	require.NoError(t, err)

	assert.NotEmpty(t, stored.ID)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.False(t, stored.UpdatedAt.IsZero())

	// Client ids are replaced and endpoints rewritten in the same operation
	require.Len(t, stored.Stages, 2)
	assert.NotEqual(t, "client-a", stored.Stages[0].ID)
	assert.NotEqual(t, "client-b", stored.Stages[1].ID)

	require.Len(t, stored.Transitions, 1)
	assert.NotEqual(t, "client-tr", stored.Transitions[0].ID)
	assert.Equal(t, stored.Stages[0].ID, stored.Transitions[0].FromStageID)
	assert.Equal(t, stored.Stages[1].ID, stored.Transitions[0].ToStageID)
}

func TestSaveDoesNotMutateInput(t *testing.T) {
	repo := NewTemplateRepository(t.TempDir())
	record := newTestRecord()

	_, err := repo.Save(t.Context(), record)
	require.NoError(t, err)

	assert.Empty(t, record.ID)
	assert.Equal(t, "client-a", record.Stages[0].ID)
}

func TestSaveKeepsKnownIDs(t *testing.T) {
	repo := NewTemplateRepository(t.TempDir())

	stored, err := repo.Save(t.Context(), newTestRecord())
	require.NoError(t, err)

	createdAt := stored.CreatedAt

	// A second save with server ids keeps every id stable
	stored.Name = "Renamed"
	again, err := repo.Save(t.Context(), stored)
	require.NoError(t, err)

	assert.Equal(t, stored.ID, again.ID)
	assert.Equal(t, stored.Stages[0].ID, again.Stages[0].ID)
	assert.Equal(t, stored.Transitions[0].ID, again.Transitions[0].ID)
	assert.Equal(t, createdAt, again.CreatedAt)
	assert.Equal(t, "Renamed", again.Name)
}

func TestSaveRekeysNewEntitiesOnUpdate(t *testing.T) {
	repo := NewTemplateRepository(t.TempDir())

	stored, err := repo.Save(t.Context(), newTestRecord())
	require.NoError(t, err)

	// Add a stage with a client id plus an edge pointing at it
	stored.Stages = append(stored.Stages, wire.Stage{ID: "client-c", StateName: "archived", StageType: "archived"})
	stored.Transitions = append(stored.Transitions, wire.Transition{
		ID:            "client-tr-2",
		FromStageID:   stored.Stages[1].ID,
		ToStageID:     "client-c",
		ConditionType: "manual",
	})

	again, err := repo.Save(t.Context(), stored)
	require.NoError(t, err)
	require.Len(t, again.Stages, 3)
	require.Len(t, again.Transitions, 2)

	assert.NotEqual(t, "client-c", again.Stages[2].ID)
	assert.Equal(t, again.Stages[2].ID, again.Transitions[1].ToStageID)
	assert.Equal(t, stored.Stages[1].ID, again.Transitions[1].FromStageID)
}

func TestSaveRejectsUnknownTemplateID(t *testing.T) {
	repo := NewTemplateRepository(t.TempDir())

	record := newTestRecord()
	record.ID = "does-not-exist"

	_, err := repo.Save(t.Context(), record)
	assert.True(t, persistence.IsTemplateNotFound(err))
}

func TestGetByID(t *testing.T) {
	repo := NewTemplateRepository(t.TempDir())

	stored, err := repo.Save(t.Context(), newTestRecord())
	require.NoError(t, err)

	loaded, err := repo.GetByID(t.Context(), stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Name, loaded.Name)
	assert.Len(t, loaded.Stages, 2)

	_, err = repo.GetByID(t.Context(), "missing")
	assert.True(t, persistence.IsTemplateNotFound(err))
}

func TestList(t *testing.T) {
	repo := NewTemplateRepository(t.TempDir())

	first := newTestRecord()
	first.Name = "Beta Flow"
	second := newTestRecord()
	second.Name = "Alpha Flow"

	_, err := repo.Save(t.Context(), first)
	require.NoError(t, err)
	_, err = repo.Save(t.Context(), second)
	require.NoError(t, err)

	templates, err := repo.List(t.Context())
	require.NoError(t, err)
	require.Len(t, templates, 2)

	// Sorted by name
	assert.Equal(t, "Alpha Flow", templates[0].Name)
	assert.Equal(t, "Beta Flow", templates[1].Name)
}

func TestListEmptyRoot(t *testing.T) {
	repo := NewTemplateRepository(t.TempDir())

	templates, err := repo.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, templates)
}

func TestDelete(t *testing.T) {
	repo := NewTemplateRepository(t.TempDir())

	stored, err := repo.Save(t.Context(), newTestRecord())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(t.Context(), stored.ID))

	_, err = repo.GetByID(t.Context(), stored.ID)
	assert.True(t, persistence.IsTemplateNotFound(err))

	// Deleting twice is not an error
	assert.NoError(t, repo.Delete(t.Context(), stored.ID))
}

func TestPersistenceHealthCheck(t *testing.T) {
	p := NewPersistence(t.TempDir())

	assert.NoError(t, p.HealthCheck(t.Context()))
	assert.NotNil(t, p.TemplateRepository())
	assert.NoError(t, p.Close(t.Context()))
}
