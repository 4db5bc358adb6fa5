package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openlms/courseflow/pkg/persistence"
	"github.com/openlms/courseflow/pkg/wire"
)

// TemplateRepository handles template-related database operations.
type TemplateRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewTemplateRepository creates a new template repository.
func NewTemplateRepository(db *sql.DB, logger *slog.Logger) *TemplateRepository {
	return &TemplateRepository{db: db, logger: logger}
}

// List returns all templates ordered by name. Stages and transitions are
// loaded in their stored order so the editor's load-order semantics hold.
func (r *TemplateRepository) List(ctx context.Context) ([]*wire.Template, error) {
	query := `
		SELECT
			id
		  , name
		  , description
		  , is_active
		  , created_at
		  , updated_at
		FROM templates
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}

	defer func(ctx context.Context, r *TemplateRepository) {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}(ctx, r)

	templates := make([]*wire.Template, 0)

	for rows.Next() {
		var t wire.Template

		err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}

		templates = append(templates, &t)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating templates: %w", err)
	}

	for _, t := range templates {
		if err := r.loadStagesAndTransitions(ctx, t); err != nil {
			return nil, fmt.Errorf("failed to load template %s: %w", t.ID, err)
		}
	}

	return templates, nil
}

// GetByID retrieves a template by its id.
func (r *TemplateRepository) GetByID(ctx context.Context, id string) (*wire.Template, error) {
	query := `
		SELECT
			id
		  , name
		  , description
		  , is_active
		  , created_at
		  , updated_at
		FROM templates
		WHERE id = $1
	`

	var t wire.Template

	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&t.ID, &t.Name, &t.Description, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewTemplateError("GetByID", id, persistence.ErrTemplateNotFound)
		}

		return nil, fmt.Errorf("failed to scan template: %w", err)
	}

	if err := r.loadStagesAndTransitions(ctx, &t); err != nil {
		return nil, fmt.Errorf("failed to load template %s: %w", id, err)
	}

	return &t, nil
}

func (r *TemplateRepository) loadStagesAndTransitions(ctx context.Context, t *wire.Template) error {
	stageQuery := `
		SELECT
			id
		  , state_name
		  , display_name
		  , stage_type
		  , is_initial
		  , is_final
		  , position_x
		  , position_y
		  , state_config
		FROM template_stages
		WHERE template_id = $1
		ORDER BY ordinal
	`

	stageRows, err := r.db.QueryContext(ctx, stageQuery, t.ID)
	if err != nil {
		return fmt.Errorf("failed to query stages: %w", err)
	}

	defer func() {
		if err := stageRows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close stage rows", "error", err)
		}
	}()

	t.Stages = make([]wire.Stage, 0)

	for stageRows.Next() {
		var (
			s           wire.Stage
			stageType   sql.NullString
			stateConfig sql.NullString
		)

		err := stageRows.Scan(
			&s.ID, &s.StateName, &s.DisplayName, &stageType,
			&s.IsInitial, &s.IsFinal, &s.PositionX, &s.PositionY, &stateConfig,
		)
		if err != nil {
			return fmt.Errorf("failed to scan stage: %w", err)
		}

		s.StageType = stageType.String
		s.StateConfig = stateConfig.String

		t.Stages = append(t.Stages, s)
	}

	if err := stageRows.Err(); err != nil {
		return fmt.Errorf("error iterating stages: %w", err)
	}

	transitionQuery := `
		SELECT
			id
		  , from_stage_id
		  , to_stage_id
		  , condition_type
		  , condition_config
		FROM template_transitions
		WHERE template_id = $1
		ORDER BY ordinal
	`

	transitionRows, err := r.db.QueryContext(ctx, transitionQuery, t.ID)
	if err != nil {
		return fmt.Errorf("failed to query transitions: %w", err)
	}

	defer func() {
		if err := transitionRows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close transition rows", "error", err)
		}
	}()

	t.Transitions = make([]wire.Transition, 0)

	for transitionRows.Next() {
		var (
			tr              wire.Transition
			conditionConfig sql.NullString
		)

		err := transitionRows.Scan(
			&tr.ID, &tr.FromStageID, &tr.ToStageID, &tr.ConditionType, &conditionConfig,
		)
		if err != nil {
			return fmt.Errorf("failed to scan transition: %w", err)
		}

		tr.ConditionConfig = conditionConfig.String

		t.Transitions = append(t.Transitions, tr)
	}

	if err := transitionRows.Err(); err != nil {
		return fmt.Errorf("error iterating transitions: %w", err)
	}

	return nil
}

// Save stores a template in a single transaction, assigning server ids where
// the record carries client-generated ones, and returns the stored state.
func (r *TemplateRepository) Save(ctx context.Context, template *wire.Template) (*wire.Template, error) {
	stored := *template
	stored.Stages = append([]wire.Stage(nil), template.Stages...)
	stored.Transitions = append([]wire.Transition(nil), template.Transitions...)

	now := time.Now().UTC()
	known := make(map[string]struct{})

	if stored.ID == "" {
		stored.ID = uuid.New().String()
		stored.CreatedAt = now
	} else {
		existing, err := r.GetByID(ctx, stored.ID)
		if err != nil {
			return nil, err
		}

		stored.CreatedAt = existing.CreatedAt

		for _, s := range existing.Stages {
			known[s.ID] = struct{}{}
		}

		for _, tr := range existing.Transitions {
			known[tr.ID] = struct{}{}
		}
	}

	stored.UpdatedAt = now
	persistence.RekeyEntities(&stored, known)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	upsert := `
		INSERT INTO templates (id, name, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`

	_, err = tx.ExecContext(ctx, upsert,
		stored.ID, stored.Name, stored.Description, stored.IsActive, stored.CreatedAt, stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert template: %w", err)
	}

	// Stages and transitions are replaced wholesale; the record on the wire
	// is the full authoritative state of the graph.
	_, err = tx.ExecContext(ctx, "DELETE FROM template_transitions WHERE template_id = $1", stored.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to clear transitions: %w", err)
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM template_stages WHERE template_id = $1", stored.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to clear stages: %w", err)
	}

	stageInsert := `
		INSERT INTO template_stages (
			template_id, id, state_name, display_name, stage_type,
			is_initial, is_final, position_x, position_y, state_config, ordinal
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for i, s := range stored.Stages {
		_, err = tx.ExecContext(ctx, stageInsert,
			stored.ID, s.ID, s.StateName, s.DisplayName, nullString(s.StageType),
			s.IsInitial, s.IsFinal, s.PositionX, s.PositionY, nullString(s.StateConfig), i)
		if err != nil {
			return nil, fmt.Errorf("failed to insert stage %s: %w", s.ID, err)
		}
	}

	transitionInsert := `
		INSERT INTO template_transitions (
			template_id, id, from_stage_id, to_stage_id,
			condition_type, condition_config, ordinal
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for i, tr := range stored.Transitions {
		_, err = tx.ExecContext(ctx, transitionInsert,
			stored.ID, tr.ID, tr.FromStageID, tr.ToStageID,
			tr.ConditionType, nullString(tr.ConditionConfig), i)
		if err != nil {
			return nil, fmt.Errorf("failed to insert transition %s: %w", tr.ID, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &stored, nil
}

// Delete removes a template; stages and transitions cascade in the schema.
func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM templates WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete template %s: %w", id, err)
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
