// Package palette describes the fixed catalogs the designer canvas draws
// from: stage types with their labels, icons and colors, and condition types
// with the JSON schema their wire payload must satisfy.
package palette

import (
	"github.com/openlms/courseflow/pkg/models"
)

// StageTypeInfo carries the presentation metadata of one palette entry.
type StageTypeInfo struct {
	Type  models.StageType `json:"type"`
	Label string           `json:"label"`
	Icon  string           `json:"icon"`
	Color string           `json:"color"`
}

var stageTypeInfos = map[models.StageType]StageTypeInfo{
	models.StageTypePlanning: {
		Type:  models.StageTypePlanning,
		Label: "Planning",
		Icon:  "clipboard",
		Color: "#6366f1",
	},
	models.StageTypeContentDevelopment: {
		Type:  models.StageTypeContentDevelopment,
		Label: "Content Development",
		Icon:  "pencil",
		Color: "#0ea5e9",
	},
	models.StageTypeReview: {
		Type:  models.StageTypeReview,
		Label: "Review",
		Icon:  "eye",
		Color: "#f59e0b",
	},
	models.StageTypeApproval: {
		Type:  models.StageTypeApproval,
		Label: "Approval",
		Icon:  "check-circle",
		Color: "#22c55e",
	},
	models.StageTypeLegalReview: {
		Type:  models.StageTypeLegalReview,
		Label: "Legal Review",
		Icon:  "scale",
		Color: "#a855f7",
	},
	models.StageTypePublished: {
		Type:  models.StageTypePublished,
		Label: "Published",
		Icon:  "globe",
		Color: "#14b8a6",
	},
	models.StageTypeArchived: {
		Type:  models.StageTypeArchived,
		Label: "Archived",
		Icon:  "archive",
		Color: "#64748b",
	},
}

// StageTypes returns the palette entries in their canonical order.
func StageTypes() []StageTypeInfo {
	types := models.StageTypes()
	infos := make([]StageTypeInfo, 0, len(types))

	for _, t := range types {
		infos = append(infos, stageTypeInfos[t])
	}

	return infos
}

// StageTypeFor returns the palette entry for a stage type. Unknown types fall
// back to the planning entry so the canvas always has something to draw.
func StageTypeFor(t models.StageType) StageTypeInfo {
	if info, ok := stageTypeInfos[t]; ok {
		return info
	}

	return stageTypeInfos[models.StageTypePlanning]
}

// DefaultLabel is the display name a stage receives when created from a
// palette entry.
func DefaultLabel(t models.StageType) string {
	return StageTypeFor(t).Label
}

// ConditionTypeInfo describes one condition type offered by the transition
// properties panel.
type ConditionTypeInfo struct {
	Type  models.ConditionType `json:"type"`
	Label string               `json:"label"`
}

// ConditionTypes returns the condition catalog in canonical order.
func ConditionTypes() []ConditionTypeInfo {
	return []ConditionTypeInfo{
		{Type: models.ConditionTypeManual, Label: "Manual"},
		{Type: models.ConditionTypeAutomatic, Label: "Automatic"},
		{Type: models.ConditionTypeTimer, Label: "Timer"},
		{Type: models.ConditionTypeApproval, Label: "Approval"},
		{Type: models.ConditionTypeConditional, Label: "Conditional"},
	}
}
