package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-registration/models"
)

var (
	ErrEntrantConflict        = errors.New("entrant conflict: payment reference already used")
	ErrEntrantCategoryInvalid = errors.New("entrant category violates store constraint")
)

// EntrantRepository описывает внешнее хранилище участников. Поддерживает только добавление и чтение.
type EntrantRepository interface {
	Create(ctx context.Context, e *models.Entrant) error
	ListAll(ctx context.Context) ([]*models.Entrant, error)
}

type postgresEntrantRepository struct {
	db *sql.DB
}

func NewPostgresEntrantRepository(db *sql.DB) EntrantRepository {
	return &postgresEntrantRepository{db: db}
}

func (r *postgresEntrantRepository) Create(ctx context.Context, e *models.Entrant) error {
	query := `
		INSERT INTO entrants (name, email, phone, category, fee, payment_reference, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		e.Name,
		e.Email,
		e.Phone,
		e.Category,
		e.Fee,
		e.PaymentReference,
		e.RegisteredAt,
	).Scan(&e.ID)

	if err != nil {
		switch {
		case isUniqueViolation(err, "entrants_payment_reference_key"):
			return ErrEntrantConflict
		case isCheckViolation(err):
			return ErrEntrantCategoryInvalid
		}
		return fmt.Errorf("failed to create entrant: %w", err)
	}
	return nil
}

func (r *postgresEntrantRepository) ListAll(ctx context.Context) ([]*models.Entrant, error) {
	query := `
		SELECT id, name, email, phone, category, fee, payment_reference, registered_at
		FROM entrants
		ORDER BY registered_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list entrants: %w", err)
	}
	defer rows.Close()

	entrants := make([]*models.Entrant, 0)
	for rows.Next() {
		var e models.Entrant
		if err := rows.Scan(
			&e.ID,
			&e.Name,
			&e.Email,
			&e.Phone,
			&e.Category,
			&e.Fee,
			&e.PaymentReference,
			&e.RegisteredAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan entrant row: %w", err)
		}
		entrants = append(entrants, &e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entrant rows: %w", err)
	}
	return entrants, nil
}
