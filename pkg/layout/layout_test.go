package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlms/courseflow/pkg/models"
)

func TestAutoPosition(t *testing.T) {
	stages := []*models.Stage{
		{ID: models.PersistedID("a"), TechnicalName: "planning"},
		{ID: models.PersistedID("b"), TechnicalName: "review"},
		{ID: models.PersistedID("c"), TechnicalName: "published"},
	}

	AutoPosition(stages)

	for _, s := range stages {
		require.NotNil(t, s.Position)
	}

	// Left-to-right by load order, no overlaps
	assert.Equal(t, models.Position{X: BaseX, Y: BaseY}, *stages[0].Position)
	assert.Equal(t, models.Position{X: BaseX + Spacing, Y: BaseY}, *stages[1].Position)
	assert.Equal(t, models.Position{X: BaseX + 2*Spacing, Y: BaseY}, *stages[2].Position)
}

func TestAutoPositionKeepsExistingPositions(t *testing.T) {
	placed := &models.Position{X: 42, Y: 17}
	stages := []*models.Stage{
		{ID: models.PersistedID("a"), Position: placed},
		{ID: models.PersistedID("b")},
	}

	AutoPosition(stages)

	assert.Equal(t, models.Position{X: 42, Y: 17}, *stages[0].Position)

	// Default slot index follows overall load order, not just unpositioned stages
	assert.Equal(t, models.Position{X: BaseX + Spacing, Y: BaseY}, *stages[1].Position)
}

func TestAutoPositionIsIdempotent(t *testing.T) {
	stages := []*models.Stage{
		{ID: models.PersistedID("a")},
		{ID: models.PersistedID("b")},
	}

	AutoPosition(stages)

	first := *stages[0].Position
	second := *stages[1].Position

	AutoPosition(stages)

	assert.Equal(t, first, *stages[0].Position)
	assert.Equal(t, second, *stages[1].Position)
}

func TestInferStageType(t *testing.T) {
	tests := []struct {
		name     string
		expected models.StageType
	}{
		{"planning", models.StageTypePlanning},
		{"content_creation", models.StageTypeContentDevelopment},
		{"in_development", models.StageTypeContentDevelopment},
		{"peer_review", models.StageTypeReview},
		{"final_approval", models.StageTypeApproval},
		{"legal_check", models.StageTypeLegalReview},
		{"published", models.StageTypePublished},
		{"archived", models.StageTypeArchived},
		{"PUBLISHED", models.StageTypePublished},
		{"something_else", models.StageTypePlanning},
		{"", models.StageTypePlanning},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, InferStageType(tt.name), "technical name %q", tt.name)
	}
}

func TestInferStageTypeKeywordPrecedence(t *testing.T) {
	// "legal_review" contains both "review" and "legal"; the first keyword in
	// scan order wins.
	assert.Equal(t, models.StageTypeReview, InferStageType("legal_review"))
}

func TestInferStageTypesSkipsTyped(t *testing.T) {
	stages := []*models.Stage{
		{TechnicalName: "review", Type: models.StageTypeArchived},
		{TechnicalName: "review"},
	}

	InferStageTypes(stages)

	assert.Equal(t, models.StageTypeArchived, stages[0].Type)
	assert.Equal(t, models.StageTypeReview, stages[1].Type)
}

func TestApply(t *testing.T) {
	template := &models.Template{
		Stages: []*models.Stage{
			{ID: models.PersistedID("a"), TechnicalName: "planning"},
			{ID: models.PersistedID("b"), TechnicalName: "approval"},
		},
	}

	Apply(template)

	for _, s := range template.Stages {
		assert.NotNil(t, s.Position)
		assert.True(t, s.Type.IsValid())
	}
}

func TestCanvasBounds(t *testing.T) {
	assert.Equal(t, Bounds{Width: MinCanvasWidth, Height: MinCanvasHeight}, CanvasBounds(nil))

	stages := []*models.Stage{
		{Position: &models.Position{X: 2000, Y: 100}},
		{Position: &models.Position{X: 100, Y: 1500}},
	}

	bounds := CanvasBounds(stages)
	assert.Equal(t, 2000+StageWidth+CanvasMargin, bounds.Width)
	assert.Equal(t, 1500+StageHeight+CanvasMargin, bounds.Height)
}

func TestCanvasBoundsNeverShrinks(t *testing.T) {
	stages := []*models.Stage{
		{Position: &models.Position{X: 10, Y: 10}},
	}

	assert.Equal(t, Bounds{Width: MinCanvasWidth, Height: MinCanvasHeight}, CanvasBounds(stages))
}
