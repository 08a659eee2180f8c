package migrations

import (
	"context"
	"fmt"
	"log"

	"picktrack/internal/repositories"
)

// Migration is one ordered, idempotent schema step. Applicable, when set,
// is checked right before execution; an inapplicable migration is recorded
// as applied without running (the step's outcome already holds).
type Migration struct {
	Version    int
	Name       string
	SQL        string
	Applicable func(ctx context.Context, db repositories.Database) (bool, error)
}

// All returns the schema history in order. Versions 2 and 3 reproduce the
// legacy picking tables; version 4 is the defensive packages-column addition
// that used to live in a one-off script.
func All() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_users",
			SQL: `
				CREATE TABLE IF NOT EXISTS users (
					id UUID PRIMARY KEY,
					username TEXT NOT NULL UNIQUE,
					password_hash TEXT NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				)
			`,
		},
		{
			Version: 2,
			Name:    "create_picking_audits",
			SQL: `
				CREATE TABLE IF NOT EXISTS picking_audits (
					id BIGSERIAL PRIMARY KEY,
					order_number TEXT NOT NULL,
					despatch_number TEXT NOT NULL,
					customer_name TEXT,
					username TEXT NOT NULL,
					timestamp TEXT NOT NULL,
					status TEXT
				)
			`,
		},
		{
			Version: 3,
			Name:    "create_picking_audit_items",
			SQL: `
				CREATE TABLE IF NOT EXISTS picking_audit_items (
					id BIGSERIAL PRIMARY KEY,
					audit_id BIGINT NOT NULL REFERENCES picking_audits(id),
					item_code TEXT,
					description TEXT,
					qty_req INTEGER NOT NULL,
					qty_scan INTEGER NOT NULL,
					difference INTEGER NOT NULL
				)
			`,
		},
		{
			Version:    4,
			Name:       "add_packages_column",
			SQL:        `ALTER TABLE picking_audits ADD COLUMN packages INTEGER NOT NULL DEFAULT 0`,
			Applicable: packagesColumnMissing,
		},
	}
}

func packagesColumnMissing(ctx context.Context, db repositories.Database) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM information_schema.columns
		WHERE table_name = 'picking_audits' AND column_name = 'packages'
	`
	if err := db.QueryRow(ctx, query).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

// Run applies every pending migration in order. Progress is tracked in
// schema_migrations so reruns are no-ops.
func Run(ctx context.Context, db repositories.Database) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	for _, m := range All() {
		var count int
		if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = $1`, m.Version).Scan(&count); err != nil {
			return fmt.Errorf("migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		execute := true
		if m.Applicable != nil {
			execute, err = m.Applicable(ctx, db)
			if err != nil {
				return fmt.Errorf("migration %d applicability check: %w", m.Version, err)
			}
		}

		if err := apply(ctx, db, m, execute); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		if execute {
			log.Printf("Applied migration %d: %s", m.Version, m.Name)
		} else {
			log.Printf("Skipped migration %d (%s): already in effect", m.Version, m.Name)
		}
	}
	return nil
}

func apply(ctx context.Context, db repositories.Database, m Migration, execute bool) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if execute {
		if _, err := tx.Exec(ctx, m.SQL); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.Version, m.Name); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
