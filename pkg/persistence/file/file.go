// Package file provides file-based persistence for workflow templates. One
// template is one JSON document; useful for local development and tests.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/openlms/courseflow/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the
// file system.
type Persistence struct {
	root         string
	templateRepo *TemplateRepository
}

// NewPersistence creates a new instance of Persistence with the specified
// root directory.
func NewPersistence(root string) persistence.Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:         cleanRoot,
		templateRepo: NewTemplateRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup. For file-based persistence, there is
// nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// TemplateRepository returns the template repository implementation for file
// persistence.
func (fp *Persistence) TemplateRepository() persistence.TemplateRepository {
	return fp.templateRepo
}
