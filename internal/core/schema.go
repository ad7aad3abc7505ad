// AngelaMos | 2026
// schema.go

package core

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(50) UNIQUE NOT NULL,
		email VARCHAR(100) UNIQUE NOT NULL,
		full_name VARCHAR(100),
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id SERIAL PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		description TEXT,
		owner_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_owner ON projects(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status)`,
}

// EnsureSchema creates both tables and their indexes when missing. It is
// safe to run on every start.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	return InTx(ctx, db, func(tx *sqlx.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}
		}
		return nil
	})
}

// SeedSampleData inserts two demo users and one project each, but only into
// an empty users table. It reports whether anything was inserted.
func SeedSampleData(ctx context.Context, db *sqlx.DB) (bool, error) {
	seeded := false

	err := InTx(ctx, db, func(tx *sqlx.Tx) error {
		var count int
		if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		if count > 0 {
			return nil
		}

		var johnID, janeID int64
		userQuery := `
			INSERT INTO users (username, email, full_name)
			VALUES ($1, $2, $3)
			RETURNING id`

		if err := tx.GetContext(ctx, &johnID, userQuery,
			"john_doe", "john@example.com", "John Doe",
		); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		if err := tx.GetContext(ctx, &janeID, userQuery,
			"jane_smith", "jane@example.com", "Jane Smith",
		); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}

		projectQuery := `
			INSERT INTO projects (name, description, owner_id)
			VALUES ($1, $2, $3)`

		if _, err := tx.ExecContext(ctx, projectQuery,
			"Machine Learning Pipeline",
			"A project to build an ML pipeline for data processing",
			johnID,
		); err != nil {
			return fmt.Errorf("seed projects: %w", err)
		}
		if _, err := tx.ExecContext(ctx, projectQuery,
			"Web Dashboard",
			"Interactive dashboard for data visualization",
			janeID,
		); err != nil {
			return fmt.Errorf("seed projects: %w", err)
		}

		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return seeded, nil
}
