package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlms/courseflow/pkg/models"
)

func sampleTemplate() *models.Template {
	days := 3

	return &models.Template{
		ID:          models.PersistedID("tpl-1"),
		Name:        "Course Lifecycle",
		Description: "standard flow",
		IsActive:    true,
		Stages: []*models.Stage{
			{
				ID:            models.PersistedID("stage-a"),
				TechnicalName: "planning",
				DisplayName:   "Planning",
				Type:          models.StageTypePlanning,
				IsInitial:     true,
				Position:      &models.Position{X: 100, Y: 100},
				Config: models.StageConfig{
					RequiredRoles: []models.ApproverRole{models.RoleCourseAdmin},
					NotifyOnEnter: true,
					EstimatedDays: &days,
				},
			},
			{
				ID:            models.PersistedID("stage-b"),
				TechnicalName: "published",
				DisplayName:   "Published",
				Type:          models.StageTypePublished,
				IsFinal:       true,
				Position:      &models.Position{X: 350, Y: 100},
				Config:        models.DefaultStageConfig(),
			},
		},
		Transitions: []*models.Transition{
			{
				ID:          models.PersistedID("tr-1"),
				FromStageID: models.PersistedID("stage-a"),
				ToStageID:   models.PersistedID("stage-b"),
				Condition:   models.ConditionTypeApproval,
				Config:      models.ApprovalCondition{RequiredRoles: []models.ApproverRole{models.RolePublisher}},
			},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := sampleTemplate()

	record, err := Encode(original)
	require.NoError(t, err)
	assert.Equal(t, "tpl-1", record.ID)
	require.Len(t, record.Stages, 2)
	assert.Equal(t, "planning", record.Stages[0].StateName)
	assert.NotEmpty(t, record.Stages[0].StateConfig)

	decoded, err := Decode(record)
	require.NoError(t, err)

	assert.Equal(t, original.ID, decoded.ID)
	assert.Equal(t, original.Name, decoded.Name)
	require.Len(t, decoded.Stages, 2)
	assert.Equal(t, original.Stages[0].Config, decoded.Stages[0].Config)
	assert.Equal(t, *original.Stages[0].Position, *decoded.Stages[0].Position)

	require.Len(t, decoded.Transitions, 1)
	assert.Equal(t, original.Transitions[0].Config, decoded.Transitions[0].Config)
	assert.True(t, decoded.Transitions[0].FromStageID.Persisted)
}

func TestEncodeOmitsPendingTemplateID(t *testing.T) {
	template := models.NewTemplate("Draft", "")

	record, err := Encode(template)
	require.NoError(t, err)
	assert.Empty(t, record.ID)
}

func TestEncodeTransmitsPendingEntityIDs(t *testing.T) {
	template := models.NewTemplate("Draft", "")
	stage := &models.Stage{
		ID:     models.NewPendingID(),
		Type:   models.StageTypePlanning,
		Config: models.DefaultStageConfig(),
	}
	template.Stages = append(template.Stages, stage)

	record, err := Encode(template)
	require.NoError(t, err)
	require.Len(t, record.Stages, 1)

	// Client-generated ids travel as-is; the backend re-keys them
	assert.Equal(t, stage.ID.Value, record.Stages[0].ID)
}

func TestDecodeRejectsMissingStageID(t *testing.T) {
	record := &Template{
		ID:     "tpl-1",
		Stages: []Stage{{StateName: "planning"}},
	}

	_, err := Decode(record)
	assert.Error(t, err)
}

func TestDecodeRejectsDuplicateStageIDs(t *testing.T) {
	record := &Template{
		ID: "tpl-1",
		Stages: []Stage{
			{ID: "a", StateName: "planning"},
			{ID: "a", StateName: "review"},
		},
	}

	_, err := Decode(record)
	assert.Error(t, err)
}

func TestDecodeRejectsUnknownStageType(t *testing.T) {
	record := &Template{
		ID:     "tpl-1",
		Stages: []Stage{{ID: "a", StageType: "launchpad"}},
	}

	_, err := Decode(record)
	assert.Error(t, err)
}

func TestDecodeRejectsDanglingTransition(t *testing.T) {
	record := &Template{
		ID:     "tpl-1",
		Stages: []Stage{{ID: "a"}},
		Transitions: []Transition{
			{ID: "tr-1", FromStageID: "a", ToStageID: "ghost", ConditionType: "manual"},
		},
	}

	_, err := Decode(record)
	assert.Error(t, err)
}

func TestDecodeRejectsInvalidConditionConfig(t *testing.T) {
	record := &Template{
		ID: "tpl-1",
		Stages: []Stage{
			{ID: "a"},
			{ID: "b"},
		},
		Transitions: []Transition{
			{
				ID:              "tr-1",
				FromStageID:     "a",
				ToStageID:       "b",
				ConditionType:   "timer",
				ConditionConfig: `{"delay_hours": 0}`,
			},
		},
	}

	_, err := Decode(record)
	assert.Error(t, err)
}

func TestDecodeAcceptsSparseLegacyRecord(t *testing.T) {
	record := &Template{
		ID:   "tpl-legacy",
		Name: "Legacy",
		Stages: []Stage{
			{ID: "a", StateName: "legal_review"},
		},
	}

	decoded, err := Decode(record)
	require.NoError(t, err)
	require.Len(t, decoded.Stages, 1)

	// Missing type and position are filled by the layout pass, not here
	assert.Empty(t, decoded.Stages[0].Type)
	assert.Nil(t, decoded.Stages[0].Position)
	assert.Equal(t, models.DefaultStageConfig(), decoded.Stages[0].Config)
}
