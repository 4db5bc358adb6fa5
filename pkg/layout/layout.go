// Package layout makes externally loaded templates renderable: it assigns
// default canvas positions to stages that lack one, infers missing stage
// types from technical names, and computes the drawable surface bounds.
package layout

import (
	"strings"

	"github.com/openlms/courseflow/pkg/models"
)

// Canvas geometry constants, in canvas units.
const (
	BaseX   = 100.0
	BaseY   = 100.0
	Spacing = 250.0

	StageWidth  = 180.0
	StageHeight = 80.0

	CanvasMargin    = 100.0
	MinCanvasWidth  = 1200.0
	MinCanvasHeight = 800.0
)

// Bounds is the size of the drawable canvas surface.
type Bounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// typeKeywords maps substrings of a technical name to a stage type. Order
// matters: the first match wins, so "legal_review" resolves to review, which
// is the observed behavior of hand-authored legacy templates.
var typeKeywords = []struct {
	keyword string
	t       models.StageType
}{
	{"planning", models.StageTypePlanning},
	{"content", models.StageTypeContentDevelopment},
	{"development", models.StageTypeContentDevelopment},
	{"review", models.StageTypeReview},
	{"approval", models.StageTypeApproval},
	{"legal", models.StageTypeLegalReview},
	{"published", models.StageTypePublished},
	{"archived", models.StageTypeArchived},
}

// InferStageType derives a stage type from a technical name by
// case-insensitive substring match. Deterministic; defaults to planning.
func InferStageType(technicalName string) models.StageType {
	name := strings.ToLower(technicalName)

	for _, kw := range typeKeywords {
		if strings.Contains(name, kw.keyword) {
			return kw.t
		}
	}

	return models.StageTypePlanning
}

// AutoPosition assigns a left-to-right linear default position to every stage
// lacking one, indexed by load order. Already-positioned stages are left
// untouched, so running the pass twice is a no-op.
func AutoPosition(stages []*models.Stage) {
	for i, s := range stages {
		if s.Position != nil {
			continue
		}

		s.Position = &models.Position{
			X: BaseX + float64(i)*Spacing,
			Y: BaseY,
		}
	}
}

// InferStageTypes fills in the stage type of every stage lacking one.
func InferStageTypes(stages []*models.Stage) {
	for _, s := range stages {
		if s.Type != "" {
			continue
		}

		s.Type = InferStageType(s.TechnicalName)
	}
}

// Apply runs the full layout pass over a template. After Apply every stage
// has a position and a valid stage type regardless of how sparse the stored
// record was.
func Apply(t *models.Template) {
	AutoPosition(t.Stages)
	InferStageTypes(t.Stages)
}

// CanvasBounds computes the drawable surface so it fully contains every stage
// plus headroom for new ones, and never shrinks below the minimum size.
func CanvasBounds(stages []*models.Stage) Bounds {
	bounds := Bounds{Width: MinCanvasWidth, Height: MinCanvasHeight}

	for _, s := range stages {
		if s.Position == nil {
			continue
		}

		if w := s.Position.X + StageWidth + CanvasMargin; w > bounds.Width {
			bounds.Width = w
		}

		if h := s.Position.Y + StageHeight + CanvasMargin; h > bounds.Height {
			bounds.Height = h
		}
	}

	return bounds
}
