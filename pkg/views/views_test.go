package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlms/courseflow/pkg/designer"
	"github.com/openlms/courseflow/pkg/models"
)

func newEditorWithStages(t *testing.T) (*designer.Editor, *models.Stage, *models.Stage) {
	t.Helper()

	e := designer.NewEditor("session-1", models.NewTemplate("Lifecycle", ""))
	a := e.AddStage(models.StageTypePlanning, models.Position{X: 100, Y: 100})
	b := e.AddStage(models.StageTypeReview, models.Position{X: 350, Y: 100})

	return e, a, b
}

func TestDesign(t *testing.T) {
	e, a, b := newEditorWithStages(t)
	e.Graph.AddTransition(a.ID, b.ID)
	e.Session.SelectStage(a.ID)

	view := Design(e)

	require.Len(t, view.Stages, 2)
	assert.True(t, view.Stages[0].Selected)
	assert.False(t, view.Stages[1].Selected)
	assert.Equal(t, "Planning", view.Stages[0].Label)
	assert.NotEmpty(t, view.Stages[0].Icon)
	assert.NotEmpty(t, view.Stages[0].Color)
	assert.Len(t, view.Transitions, 1)
	assert.Equal(t, designer.ModeIdle, view.Mode)
	assert.GreaterOrEqual(t, view.Bounds.Width, 1200.0)
}

func TestPreviewOrdersInitialFirst(t *testing.T) {
	e := designer.NewEditor("session-1", models.NewTemplate("Lifecycle", ""))

	// Load order puts the initial stage second
	b := e.AddStage(models.StageTypeReview, models.Position{})
	a := e.AddStage(models.StageTypePlanning, models.Position{})
	b.IsInitial = false
	a.IsInitial = true

	view := Preview(e)

	require.Len(t, view.Entries, 2)
	assert.True(t, view.Entries[0].Stage.ID.Equal(a.ID))
	assert.True(t, view.Entries[1].Stage.ID.Equal(b.ID))
}

func TestPreviewStats(t *testing.T) {
	e, a, b := newEditorWithStages(t)
	e.Graph.AddTransition(a.ID, b.ID)

	days := 5
	a.Config.EstimatedDays = &days

	view := Preview(e)

	assert.Equal(t, 2, view.Stats.StageCount)
	assert.Equal(t, 1, view.Stats.TransitionCount)
	assert.Equal(t, 5, view.Stats.TotalEstimatedDays)

	require.Len(t, view.Entries, 2)
	assert.Equal(t, 1, view.Entries[0].OutgoingCount)
	assert.Equal(t, 5, view.Entries[0].EstimatedDays)
	assert.Equal(t, 0, view.Entries[1].EstimatedDays)
}

func TestSettings(t *testing.T) {
	e, _, _ := newEditorWithStages(t)
	e.Description = "course flow"
	e.IsActive = true

	view := Settings(e)

	assert.Equal(t, "Lifecycle", view.Name)
	assert.Equal(t, "course flow", view.Description)
	assert.True(t, view.IsActive)
	assert.NotEmpty(t, view.Checklist)
}

func checkByName(t *testing.T, checks []Check, name string) Check {
	t.Helper()

	for _, c := range checks {
		if c.Name == name {
			return c
		}
	}

	t.Fatalf("no check named %q", name)

	return Check{}
}

func TestChecklist(t *testing.T) {
	e := designer.NewEditor("session-1", models.NewTemplate("Lifecycle", ""))

	checks := Checklist(e)
	assert.False(t, checkByName(t, checks, "has_stages").Passed)
	assert.False(t, checkByName(t, checks, "single_initial_stage").Passed)
	assert.False(t, checkByName(t, checks, "has_final_stage").Passed)
	assert.True(t, checkByName(t, checks, "name_present").Passed)

	a := e.AddStage(models.StageTypePlanning, models.Position{})
	b := e.AddStage(models.StageTypePublished, models.Position{})
	a.TechnicalName = "planning"
	b.TechnicalName = "published"
	b.IsFinal = true

	checks = Checklist(e)
	assert.True(t, checkByName(t, checks, "has_stages").Passed)
	assert.True(t, checkByName(t, checks, "single_initial_stage").Passed)
	assert.True(t, checkByName(t, checks, "has_final_stage").Passed)
	assert.True(t, checkByName(t, checks, "unique_technical_names").Passed)
	assert.True(t, checkByName(t, checks, "conditions_valid").Passed)
}

func TestChecklistFlagsDuplicateNamesAndBadConditions(t *testing.T) {
	e := designer.NewEditor("session-1", models.NewTemplate("", ""))
	a := e.AddStage(models.StageTypePlanning, models.Position{})
	b := e.AddStage(models.StageTypeReview, models.Position{})
	a.TechnicalName = "review"
	b.TechnicalName = "review"

	tr := e.Graph.AddTransition(a.ID, b.ID)
	tr.Condition = models.ConditionTypeTimer
	tr.Config = models.TimerCondition{DelayHours: 0}

	checks := Checklist(e)
	assert.False(t, checkByName(t, checks, "name_present").Passed)
	assert.False(t, checkByName(t, checks, "unique_technical_names").Passed)
	assert.False(t, checkByName(t, checks, "conditions_valid").Passed)
}
