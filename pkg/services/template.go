package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openlms/courseflow/pkg/eventbus"
	"github.com/openlms/courseflow/pkg/layout"
	"github.com/openlms/courseflow/pkg/models"
	"github.com/openlms/courseflow/pkg/persistence"
	"github.com/openlms/courseflow/pkg/wire"
)

// ErrTemplateNotFound is returned when a template is not found.
var ErrTemplateNotFound = persistence.ErrTemplateNotFound

// Template is the application service for template CRUD. Every template
// leaving this service has gone through the layout pass: fully positioned and
// typed regardless of how sparse the stored record was.
type Template struct {
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	logger      *slog.Logger
}

// NewTemplate creates a new template service.
func NewTemplate(p persistence.Persistence, eb eventbus.EventBus, logger *slog.Logger) *Template {
	return &Template{
		persistence: p,
		eventBus:    eb,
		logger:      logger,
	}
}

// HealthCheck checks the health of the persistence layer.
func (s *Template) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := s.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// List retrieves all templates.
func (s *Template) List(ctx context.Context) ([]*models.Template, error) {
	records, err := s.persistence.TemplateRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	templates := make([]*models.Template, 0, len(records))

	for _, record := range records {
		template, err := wire.Decode(record)
		if err != nil {
			return nil, fmt.Errorf("failed to decode template %s: %w", record.ID, err)
		}

		layout.Apply(template)
		templates = append(templates, template)
	}

	return templates, nil
}

// FetchByID retrieves a template by its id and runs the layout pass over it.
// A record that fails to decode is rejected wholesale; no partial graph is
// ever returned.
func (s *Template) FetchByID(ctx context.Context, id string) (*models.Template, error) {
	record, err := s.persistence.TemplateRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	template, err := wire.Decode(record)
	if err != nil {
		return nil, fmt.Errorf("failed to decode template %s: %w", id, err)
	}

	layout.Apply(template)

	return template, nil
}

// Save persists a template: create when its id is still pending, update
// otherwise. Returns the stored state, decoded and layouted, with all ids
// resolved to their persisted form.
func (s *Template) Save(ctx context.Context, template *models.Template) (*models.Template, error) {
	if template == nil {
		return nil, ErrTemplateNil
	}

	creating := !template.ID.Persisted

	record, err := wire.Encode(template)
	if err != nil {
		return nil, fmt.Errorf("failed to encode template: %w", err)
	}

	stored, err := s.persistence.TemplateRepository().Save(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	saved, err := wire.Decode(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to decode saved template %s: %w", stored.ID, err)
	}

	layout.Apply(saved)

	if creating {
		s.publish(ctx, saved.ID.Value, eventbus.TemplateCreated{
			TemplateID: saved.ID.Value,
			Name:       saved.Name,
			Timestamp:  time.Now().UTC(),
		})
	} else {
		s.publish(ctx, saved.ID.Value, eventbus.TemplateUpdated{
			TemplateID: saved.ID.Value,
			Name:       saved.Name,
			Timestamp:  time.Now().UTC(),
		})
	}

	return saved, nil
}

// Delete removes a template by its id.
func (s *Template) Delete(ctx context.Context, id string) error {
	_, err := s.persistence.TemplateRepository().GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.persistence.TemplateRepository().Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	s.publish(ctx, id, eventbus.TemplateDeleted{
		TemplateID: id,
		Timestamp:  time.Now().UTC(),
	})

	return nil
}

// publish sends a lifecycle event. Publish failures are logged, not
// propagated; the save already succeeded and must not be reported as failed.
func (s *Template) publish(ctx context.Context, key string, event eventbus.Event) {
	if s.eventBus == nil {
		return
	}

	if err := s.eventBus.Publish(ctx, key, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish template event",
			"event_type", event.GetType(), "template_id", key, "error", err)
	}
}
