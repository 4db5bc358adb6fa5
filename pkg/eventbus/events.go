package eventbus

import "time"

// Topic is the message topic for template lifecycle events.
const Topic = "courseflow.templates"

// Metadata keys attached to published messages.
const (
	EventMetadataKey     = "event_key"
	EventTypeMetadataKey = "event_type"
)

// EventType identifies a template lifecycle event.
type EventType string

const (
	TemplateCreatedEvent EventType = "template.created"
	TemplateUpdatedEvent EventType = "template.updated"
	TemplateDeletedEvent EventType = "template.deleted"
)

// Event is a publishable lifecycle event.
type Event interface {
	GetType() EventType
}

// TemplateCreated is published after a template is first persisted.
type TemplateCreated struct {
	TemplateID string    `json:"template_id"`
	Name       string    `json:"name"`
	Timestamp  time.Time `json:"timestamp"`
}

func (TemplateCreated) GetType() EventType { return TemplateCreatedEvent }

// TemplateUpdated is published after an existing template is saved.
type TemplateUpdated struct {
	TemplateID string    `json:"template_id"`
	Name       string    `json:"name"`
	Timestamp  time.Time `json:"timestamp"`
}

func (TemplateUpdated) GetType() EventType { return TemplateUpdatedEvent }

// TemplateDeleted is published after a template is removed.
type TemplateDeleted struct {
	TemplateID string    `json:"template_id"`
	Timestamp  time.Time `json:"timestamp"`
}

func (TemplateDeleted) GetType() EventType { return TemplateDeletedEvent }
