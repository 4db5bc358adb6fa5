package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

const currentSchemaVersion = 1

// MigrationManager handles database schema migrations.
type MigrationManager struct {
	db         *sql.DB
	logger     *slog.Logger
	migrations map[int]string
}

// NewMigrationManager creates a new migration manager.
func NewMigrationManager(logger *slog.Logger, db *sql.DB, migrations map[int]string) *MigrationManager {
	return &MigrationManager{
		db:         db,
		logger:     logger,
		migrations: migrations,
	}
}

// RunMigrations handles database schema creation and updates.
func (m *MigrationManager) RunMigrations(ctx context.Context) error {
	m.logger.InfoContext(ctx, "Starting database migrations")

	err := m.createMigrationsTable(ctx)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := m.getCurrentSchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	m.logger.InfoContext(ctx, "Current schema version", "version", currentVersion)

	if currentVersion < currentSchemaVersion {
		err := m.applyMigrations(ctx, currentVersion)
		if err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	m.logger.InfoContext(ctx, "Database migrations completed", "version", currentSchemaVersion)

	return nil
}

func (m *MigrationManager) createMigrationsTable(ctx context.Context) error {
	createMigrationsSQL := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL
		)
	`

	_, err := m.db.ExecContext(ctx, createMigrationsSQL)

	return err
}

func (m *MigrationManager) getCurrentSchemaVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64

	err := m.db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}

	if !version.Valid {
		return 0, nil
	}

	return int(version.Int64), nil
}

func (m *MigrationManager) applyMigrations(ctx context.Context, fromVersion int) error {
	versions := make([]int, 0, len(m.migrations))

	for v := range m.migrations {
		if v > fromVersion {
			versions = append(versions, v)
		}
	}

	sort.Ints(versions)

	for _, version := range versions {
		m.logger.InfoContext(ctx, "Applying migration", "version", version)

		tx, err := m.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if _, err := tx.ExecContext(ctx, m.migrations[version]); err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("migration %d failed: %w", version, err)
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)",
			version, time.Now().UTC(),
		); err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("failed to record migration %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", version, err)
		}
	}

	return nil
}

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE templates (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				is_active BOOLEAN NOT NULL DEFAULT false,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_templates_name ON templates(name);
			CREATE INDEX idx_templates_is_active ON templates(is_active);

			CREATE TABLE template_stages (
				template_id UUID NOT NULL REFERENCES templates(id) ON DELETE CASCADE,
				id VARCHAR(255) NOT NULL,
				state_name VARCHAR(255) NOT NULL DEFAULT '',
				display_name VARCHAR(255) NOT NULL DEFAULT '',
				stage_type VARCHAR(50),
				is_initial BOOLEAN NOT NULL DEFAULT false,
				is_final BOOLEAN NOT NULL DEFAULT false,
				position_x DOUBLE PRECISION,
				position_y DOUBLE PRECISION,
				state_config JSONB,
				ordinal INT NOT NULL DEFAULT 0,
				PRIMARY KEY (template_id, id)
			);

			CREATE TABLE template_transitions (
				template_id UUID NOT NULL REFERENCES templates(id) ON DELETE CASCADE,
				id VARCHAR(255) NOT NULL,
				from_stage_id VARCHAR(255) NOT NULL,
				to_stage_id VARCHAR(255) NOT NULL,
				condition_type VARCHAR(50) NOT NULL,
				condition_config JSONB,
				ordinal INT NOT NULL DEFAULT 0,
				PRIMARY KEY (template_id, id),
				FOREIGN KEY (template_id, from_stage_id)
					REFERENCES template_stages(template_id, id) ON DELETE CASCADE,
				FOREIGN KEY (template_id, to_stage_id)
					REFERENCES template_stages(template_id, id) ON DELETE CASCADE
			);
		`,
	}
}
