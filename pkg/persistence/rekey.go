package persistence

import (
	"github.com/google/uuid"

	"github.com/openlms/courseflow/pkg/wire"
)

// RekeyEntities replaces every stage and transition id the backend has not
// seen before with a server-assigned id, rewriting transition endpoints that
// referenced the old client ids. Shared by all repository implementations so
// the id-assignment contract is identical across backends.
func RekeyEntities(template *wire.Template, known map[string]struct{}) {
	mapping := make(map[string]string)

	for i := range template.Stages {
		id := template.Stages[i].ID
		if _, ok := known[id]; ok && id != "" {
			continue
		}

		newID := uuid.New().String()
		if id != "" {
			mapping[id] = newID
		}

		template.Stages[i].ID = newID
	}

	for i := range template.Transitions {
		if newFrom, ok := mapping[template.Transitions[i].FromStageID]; ok {
			template.Transitions[i].FromStageID = newFrom
		}

		if newTo, ok := mapping[template.Transitions[i].ToStageID]; ok {
			template.Transitions[i].ToStageID = newTo
		}

		id := template.Transitions[i].ID
		if _, ok := known[id]; ok && id != "" {
			continue
		}

		template.Transitions[i].ID = uuid.New().String()
	}
}
