// Package views derives the three read-only presentations of one editing
// session: the editable Design canvas, the linear Preview, and the Settings
// panel with its advisory validation checklist. All projections are pure
// reads; switching between them never mutates the graph.
package views

import (
	"sort"
	"strings"

	"github.com/openlms/courseflow/pkg/designer"
	"github.com/openlms/courseflow/pkg/layout"
	"github.com/openlms/courseflow/pkg/models"
	"github.com/openlms/courseflow/pkg/palette"
)

// DesignStage is one canvas node with its palette presentation resolved.
type DesignStage struct {
	Stage    *models.Stage `json:"stage"`
	Label    string        `json:"label"`
	Icon     string        `json:"icon"`
	Color    string        `json:"color"`
	Selected bool          `json:"selected"`
}

// DesignView is the editable node/edge canvas.
type DesignView struct {
	Stages             []DesignStage        `json:"stages"`
	Transitions        []*models.Transition `json:"transitions"`
	SelectedTransition string               `json:"selected_transition,omitempty"`
	Bounds             layout.Bounds        `json:"bounds"`
	Mode               designer.Mode        `json:"mode"`
	ConnectSource      string               `json:"connect_source,omitempty"`
}

// Design projects the editable canvas.
func Design(e *designer.Editor) DesignView {
	stages := make([]DesignStage, 0, len(e.Graph.Stages))

	for _, s := range e.Graph.Stages {
		info := palette.StageTypeFor(s.Type)
		stages = append(stages, DesignStage{
			Stage:    s,
			Label:    info.Label,
			Icon:     info.Icon,
			Color:    info.Color,
			Selected: e.Session.SelectedStage.Equal(s.ID) && !s.ID.IsZero(),
		})
	}

	return DesignView{
		Stages:             stages,
		Transitions:        e.Graph.Transitions,
		SelectedTransition: e.Session.SelectedTransition.Value,
		Bounds:             layout.CanvasBounds(e.Graph.Stages),
		Mode:               e.Session.Mode,
		ConnectSource:      e.Session.ConnectSource.Value,
	}
}

// PreviewEntry annotates one stage in the linear preview.
type PreviewEntry struct {
	Stage         *models.Stage `json:"stage"`
	OutgoingCount int           `json:"outgoing_count"`
	EstimatedDays int           `json:"estimated_days"`
}

// PreviewStats aggregates the template for the preview footer.
type PreviewStats struct {
	StageCount         int `json:"stage_count"`
	TransitionCount    int `json:"transition_count"`
	TotalEstimatedDays int `json:"total_estimated_days"`
}

// PreviewView is the ordered stage list with aggregate stats.
type PreviewView struct {
	Entries []PreviewEntry `json:"entries"`
	Stats   PreviewStats   `json:"stats"`
}

// Preview projects the linear stage list: the initial stage first, all other
// stages keeping their relative load order (stable sort). Missing estimated
// durations count as zero.
func Preview(e *designer.Editor) PreviewView {
	ordered := make([]*models.Stage, len(e.Graph.Stages))
	copy(ordered, e.Graph.Stages)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].IsInitial && !ordered[j].IsInitial
	})

	entries := make([]PreviewEntry, 0, len(ordered))
	totalDays := 0

	for _, s := range ordered {
		days := 0
		if s.Config.EstimatedDays != nil {
			days = *s.Config.EstimatedDays
		}

		totalDays += days

		entries = append(entries, PreviewEntry{
			Stage:         s,
			OutgoingCount: e.Graph.OutgoingCount(s.ID),
			EstimatedDays: days,
		})
	}

	return PreviewView{
		Entries: entries,
		Stats: PreviewStats{
			StageCount:         len(e.Graph.Stages),
			TransitionCount:    len(e.Graph.Transitions),
			TotalEstimatedDays: totalDays,
		},
	}
}

// Check is one advisory checklist item. The checklist never blocks saving.
type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
}

// SettingsView is the template-level metadata plus the live validation
// checklist.
type SettingsView struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	IsActive    bool    `json:"is_active"`
	Checklist   []Check `json:"checklist"`
}

// Settings projects template metadata and evaluates the checklist.
func Settings(e *designer.Editor) SettingsView {
	return SettingsView{
		Name:        e.Name,
		Description: e.Description,
		IsActive:    e.IsActive,
		Checklist:   Checklist(e),
	}
}

// Checklist evaluates every advisory check independently.
func Checklist(e *designer.Editor) []Check {
	initials := 0
	finals := 0
	names := make(map[string]int)

	for _, s := range e.Graph.Stages {
		if s.IsInitial {
			initials++
		}

		if s.IsFinal {
			finals++
		}

		if s.TechnicalName != "" {
			names[s.TechnicalName]++
		}
	}

	uniqueNames := true

	for _, n := range names {
		if n > 1 {
			uniqueNames = false

			break
		}
	}

	conditionsValid := true

	for _, tr := range e.Graph.Transitions {
		if tr.Config == nil || tr.Config.Validate() != nil {
			conditionsValid = false

			break
		}
	}

	return []Check{
		{Name: "has_stages", Passed: len(e.Graph.Stages) > 0},
		{Name: "single_initial_stage", Passed: initials == 1},
		{Name: "has_final_stage", Passed: finals > 0},
		{Name: "name_present", Passed: strings.TrimSpace(e.Name) != ""},
		{Name: "unique_technical_names", Passed: uniqueNames},
		{Name: "conditions_valid", Passed: conditionsValid},
	}
}
