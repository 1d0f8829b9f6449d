package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SettingsRepository хранит единственный документ конфигурации турнира.
type SettingsRepository interface {
	GetRegistrationOpen(ctx context.Context) (bool, error)
	SetRegistrationOpen(ctx context.Context, open bool) error
}

type postgresSettingsRepository struct {
	db *sql.DB
}

func NewPostgresSettingsRepository(db *sql.DB) SettingsRepository {
	return &postgresSettingsRepository{db: db}
}

func (r *postgresSettingsRepository) GetRegistrationOpen(ctx context.Context) (bool, error) {
	var open bool
	err := r.db.QueryRowContext(ctx, `SELECT registration_open FROM settings WHERE id = 1`).Scan(&open)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Registration starts open until an administrator says otherwise
			return true, nil
		}
		return false, fmt.Errorf("failed to read registration status: %w", err)
	}
	return open, nil
}

func (r *postgresSettingsRepository) SetRegistrationOpen(ctx context.Context, open bool) error {
	query := `
		INSERT INTO settings (id, registration_open, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET registration_open = EXCLUDED.registration_open, updated_at = NOW()`

	result, err := r.db.ExecContext(ctx, query, open)
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}
	return checkAffectedRows(result, errSettingsNotWritten)
}

var errSettingsNotWritten = errors.New("settings row was not written")
