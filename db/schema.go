package db

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements создают таблицы хранилища, если их ещё нет.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS entrants (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL,
		category TEXT NOT NULL CHECK (category IN ('singles', 'doubles', 'both')),
		fee INTEGER NOT NULL,
		payment_reference TEXT NOT NULL,
		registered_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT entrants_payment_reference_key UNIQUE (payment_reference)
	)`,
	`CREATE TABLE IF NOT EXISTS fixtures (
		batch_id UUID NOT NULL,
		fixture_id TEXT NOT NULL,
		category TEXT NOT NULL CHECK (category IN ('singles', 'doubles')),
		entrant_a TEXT NOT NULL,
		entrant_b TEXT NOT NULL,
		result TEXT,
		round_label TEXT NOT NULL,
		order_in_round INT NOT NULL CHECK (order_in_round > 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (batch_id, fixture_id)
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		id SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		registration_open BOOLEAN NOT NULL DEFAULT TRUE,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
