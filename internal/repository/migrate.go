package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// DDL kept dialect-neutral: it runs unchanged on sqlite and postgres.
// plan_items carries ON DELETE CASCADE so items can never outlive their plan.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS treatment_plans (
		id           TEXT PRIMARY KEY,
		patient_name TEXT NOT NULL DEFAULT 'Unknown Patient',
		created_at   TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS plan_items (
		id             TEXT PRIMARY KEY,
		plan_id        TEXT NOT NULL REFERENCES treatment_plans(id) ON DELETE CASCADE,
		position       INTEGER NOT NULL,
		code           TEXT NOT NULL,
		technical_name TEXT NOT NULL,
		friendly_name  TEXT NOT NULL,
		explanation    TEXT NOT NULL,
		urgency        TEXT NOT NULL,
		price          DOUBLE PRECISION,
		urgency_hook   TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_plan_items_plan_position ON plan_items (plan_id, position)`,
}

// Migrate applies the schema. Statements are idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
