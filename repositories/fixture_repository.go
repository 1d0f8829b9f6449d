package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-registration/models"
)

var ErrFixtureConflict = errors.New("fixture conflict: id already used in this batch")

type FixtureRepository interface {
	// CreateBatch добавляет все матчи одной жеребьёвки; ранее сохранённые матчи не трогает.
	CreateBatch(ctx context.Context, fixtures []*models.Fixture) error
	ListAll(ctx context.Context) ([]*models.Fixture, error)
}

type postgresFixtureRepository struct {
	db *sql.DB
}

func NewPostgresFixtureRepository(db *sql.DB) FixtureRepository {
	return &postgresFixtureRepository{db: db}
}

func (r *postgresFixtureRepository) CreateBatch(ctx context.Context, fixtures []*models.Fixture) (err error) {
	if len(fixtures) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin fixture batch transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
		}
	}()

	query := `
		INSERT INTO fixtures (batch_id, fixture_id, category, entrant_a, entrant_b, result, round_label, order_in_round)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	for _, f := range fixtures {
		err = tx.QueryRowContext(ctx, query,
			f.BatchID,
			f.ID,
			f.Category,
			f.EntrantA,
			f.EntrantB,
			f.Result,
			f.RoundLabel,
			f.OrderInRound,
		).Scan(&f.CreatedAt)
		if err != nil {
			if isUniqueViolation(err, "") {
				err = fmt.Errorf("%w: %s", ErrFixtureConflict, f.ID)
				return err
			}
			err = fmt.Errorf("failed to create fixture %s: %w", f.ID, err)
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		err = fmt.Errorf("failed to commit fixture batch: %w", err)
		return err
	}
	return nil
}

func (r *postgresFixtureRepository) ListAll(ctx context.Context) ([]*models.Fixture, error) {
	query := `
		SELECT batch_id, fixture_id, category, entrant_a, entrant_b, result, round_label, order_in_round, created_at
		FROM fixtures
		ORDER BY created_at ASC, batch_id,
			CASE category WHEN 'singles' THEN 0 ELSE 1 END,
			order_in_round`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixtures: %w", err)
	}
	defer rows.Close()

	fixtures := make([]*models.Fixture, 0)
	for rows.Next() {
		var f models.Fixture
		if err := rows.Scan(
			&f.BatchID,
			&f.ID,
			&f.Category,
			&f.EntrantA,
			&f.EntrantB,
			&f.Result,
			&f.RoundLabel,
			&f.OrderInRound,
			&f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fixture row: %w", err)
		}
		fixtures = append(fixtures, &f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fixture rows: %w", err)
	}
	return fixtures, nil
}
