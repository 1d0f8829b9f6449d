package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-registration/models"
)

func TestEntrantRepository_Create(t *testing.T) {
	ctx := context.Background()
	registeredAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	newEntrant := func() *models.Entrant {
		return &models.Entrant{
			Name:             "Eve",
			Email:            "e@x.com",
			Phone:            "123",
			Category:         models.CategoryBoth,
			Fee:              10,
			PaymentReference: "pi_abc",
			RegisteredAt:     registeredAt,
		}
	}

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  int
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO entrants`).
					WithArgs("Eve", "e@x.com", "123", "both", 10, "pi_abc", registeredAt).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
			},
			wantID: 7,
		},
		{
			name: "duplicate payment reference",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO entrants`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "entrants_payment_reference_key"})
			},
			wantErr: true,
			errIs:   ErrEntrantConflict,
		},
		{
			name: "category check violation",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO entrants`).
					WillReturnError(&pq.Error{Code: "23514"})
			},
			wantErr: true,
			errIs:   ErrEntrantCategoryInvalid,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO entrants`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
			errIs:   sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewPostgresEntrantRepository(db)
			e := newEntrant()
			err = repo.Create(ctx, e)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.wantID, e.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEntrantRepository_ListAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "name", "email", "phone", "category", "fee", "payment_reference", "registered_at"}).
		AddRow(1, "Alice", "a@x.com", "1", "singles", 5, "pi_1", at).
		AddRow(2, "Bob", "b@x.com", "2", "both", 10, "pi_2", at.Add(time.Minute))
	mock.ExpectQuery(`SELECT id, name, email, phone, category, fee, payment_reference, registered_at\s+FROM entrants`).
		WillReturnRows(rows)

	entrants, err := NewPostgresEntrantRepository(db).ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entrants, 2)
	require.Equal(t, "Alice", entrants[0].Name)
	require.Equal(t, models.CategoryBoth, entrants[1].Category)
	require.Equal(t, 10, entrants[1].Fee)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntrantRepository_ListAll_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM entrants`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "category", "fee", "payment_reference", "registered_at"}))

	entrants, err := NewPostgresEntrantRepository(db).ListAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, entrants)
	require.Empty(t, entrants)
}
