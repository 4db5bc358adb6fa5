package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/openlms/courseflow/pkg/persistence"
	"github.com/openlms/courseflow/pkg/wire"
)

// TemplateRepository handles template-related file operations.
type TemplateRepository struct {
	root string // File system root for storing templates
}

// NewTemplateRepository creates a new template repository.
func NewTemplateRepository(root string) *TemplateRepository {
	return &TemplateRepository{root: root}
}

// List returns all stored templates sorted by name.
func (tr *TemplateRepository) List(ctx context.Context) ([]*wire.Template, error) {
	root := os.DirFS(path.Join(tr.root, "templates"))

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list template files: %w", err)
	}

	templates := make([]*wire.Template, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		templateID := file[:len(file)-5] // Remove .json extension

		template, err := tr.GetByID(ctx, templateID)
		if err != nil {
			if persistence.IsTemplateNotFound(err) {
				continue
			}

			return nil, fmt.Errorf("failed to load template %s: %w", templateID, err)
		}

		templates = append(templates, template)
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})

	return templates, nil
}

// GetByID retrieves a template by its id from the file system.
func (tr *TemplateRepository) GetByID(_ context.Context, templateID string) (*wire.Template, error) {
	filePath := filepath.Clean(path.Join(tr.root, "templates", templateID+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewTemplateError("GetByID", templateID, persistence.ErrTemplateNotFound)
		}

		return nil, fmt.Errorf("failed to fetch template %s: %w", templateID, err)
	}

	var template wire.Template

	err = json.Unmarshal(body, &template)
	if err != nil {
		return nil, persistence.NewTemplateError("GetByID", templateID, persistence.ErrTemplateInvalid)
	}

	return &template, nil
}

// Save stores a template, assigning server ids where the record carries
// client-generated ones, and returns the stored state. Transition endpoints
// referencing re-keyed stages are rewritten in the same operation.
func (tr *TemplateRepository) Save(ctx context.Context, template *wire.Template) (*wire.Template, error) {
	stored, err := cloneTemplate(template)
	if err != nil {
		return nil, fmt.Errorf("failed to copy template: %w", err)
	}

	now := time.Now().UTC()
	known := make(map[string]struct{})

	if stored.ID == "" {
		stored.ID = uuid.New().String()
		stored.CreatedAt = now
	} else {
		existing, err := tr.GetByID(ctx, stored.ID)
		if err != nil {
			return nil, err
		}

		stored.CreatedAt = existing.CreatedAt

		for _, s := range existing.Stages {
			known[s.ID] = struct{}{}
		}

		for _, t := range existing.Transitions {
			known[t.ID] = struct{}{}
		}
	}

	stored.UpdatedAt = now
	persistence.RekeyEntities(stored, known)

	err = os.MkdirAll(path.Join(tr.root, "templates"), 0750)
	if err != nil {
		return nil, fmt.Errorf("failed to create templates directory: %w", err)
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template %s: %w", stored.ID, err)
	}

	filePath := path.Join(tr.root, "templates", stored.ID+".json")

	err = os.WriteFile(filePath, data, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to write template %s: %w", stored.ID, err)
	}

	return stored, nil
}

// Delete removes a template by its id. Deleting a missing template is not an
// error.
func (tr *TemplateRepository) Delete(_ context.Context, id string) error {
	filePath := path.Join(tr.root, "templates", id+".json")

	err := os.Remove(filePath)

	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to delete template %s: %w", id, err)
	}

	return nil
}

func cloneTemplate(template *wire.Template) (*wire.Template, error) {
	data, err := json.Marshal(template)
	if err != nil {
		return nil, err
	}

	var clone wire.Template
	if err := json.Unmarshal(data, &clone); err != nil {
		return nil, err
	}

	return &clone, nil
}
