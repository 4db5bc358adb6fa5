package models

import "time"

// Template is the saved, named graph of stages and transitions, reusable
// across many course instances. It is owned exclusively by one editor session
// until saved; the backend is the system of record afterwards.
type Template struct {
	ID          EntityID      `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	IsActive    bool          `json:"is_active"`
	Stages      []*Stage      `json:"stages"`
	Transitions []*Transition `json:"transitions"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewTemplate creates an empty, unsaved template.
func NewTemplate(name, description string) *Template {
	return &Template{
		ID:          NewPendingID(),
		Name:        name,
		Description: description,
		Stages:      []*Stage{},
		Transitions: []*Transition{},
	}
}

// Stage returns the stage with the given id, or nil.
func (t *Template) Stage(id EntityID) *Stage {
	for _, s := range t.Stages {
		if s.ID.Equal(id) {
			return s
		}
	}

	return nil
}
