// Package persistence provides the storage abstraction for workflow
// templates. Repositories speak the wire format; decoding into the domain
// model is the service layer's job.
package persistence

import (
	"context"

	"github.com/openlms/courseflow/pkg/wire"
)

// TemplateRepository is the backend the designer saves to and loads from.
// Save assigns server ids to records carrying client-generated ones and
// echoes the stored state, including rewritten transition endpoints.
type TemplateRepository interface {
	List(ctx context.Context) ([]*wire.Template, error)
	GetByID(ctx context.Context, id string) (*wire.Template, error)
	Save(ctx context.Context, template *wire.Template) (*wire.Template, error)
	Delete(ctx context.Context, id string) error
}

// Persistence bundles the repositories of one storage backend.
type Persistence interface {
	TemplateRepository() TemplateRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
