package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL, которые репозитории переводят в свои ошибки.
const (
	pgUniqueViolation pq.ErrorCode = "23505"
	pgCheckViolation  pq.ErrorCode = "23514"
)

// isUniqueViolation reports a unique_violation; an empty constraint matches any.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != pgUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

func isCheckViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgCheckViolation
}

func checkAffectedRows(result sql.Result, notWrittenError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notWrittenError
	}
	return nil
}
