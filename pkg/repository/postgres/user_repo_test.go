package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/webshop/pkg/auth"
)

func testUser() auth.User {
	return auth.User{
		ID:           uuid.New(),
		Email:        "A@x.com",
		PasswordHash: "$2a$04$hash",
		FullName:     "Anna",
		Phone:        "+1 555 0100",
		Age:          30,
		Address:      "Main st",
		Roles:        []string{auth.DefaultRole},
		CreatedAt:    time.Now().UTC(),
	}
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestUserRepository_Create(t *testing.T) {
	u := testUser()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		errMsg    string
	}{
		{
			name: "user and role committed together",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs(u.ID, "a@x.com", u.PasswordHash, u.FullName, u.Phone, u.Age, u.Address, pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec(`INSERT INTO user_roles`).
					WithArgs(u.ID, auth.DefaultRole).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "unique violation maps to duplicate email",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs(anyArgs(8)...).
					WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_idx"})
				mock.ExpectRollback()
			},
			wantErr: auth.ErrDuplicateEmail,
		},
		{
			name: "role failure rolls the user back",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs(anyArgs(8)...).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec(`INSERT INTO user_roles`).
					WithArgs(anyArgs(2)...).
					WillReturnError(&pgconn.PgError{Code: "23503", Message: "role missing"})
				mock.ExpectRollback()
			},
			errMsg: "assign role",
		},
		{
			name: "begin failure",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin().WillReturnError(errors.New("connection refused"))
			},
			errMsg: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewUserRepository(mock)
			err = repo.Create(context.Background(), u)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.NotErrorIs(t, err, auth.ErrDuplicateEmail)
			default:
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := pgxmock.NewRows([]string{"id", "email", "password_hash", "full_name", "phone", "age", "address", "created_at", "roles"}).
		AddRow(id.String(), "a@x.com", "$2a$04$hash", "Anna", "", 30, "", created, []string{"User"})
	mock.ExpectQuery(`SELECT u.id, u.email`).
		WithArgs("a@x.com").
		WillReturnRows(rows)

	repo := NewUserRepository(mock)
	got, err := repo.GetByEmail(context.Background(), " a@x.com ")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Anna", got.FullName)
	assert.Equal(t, 30, got.Age)
	assert.Equal(t, []string{"User"}, got.Roles)
	assert.Equal(t, created, got.CreatedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT u.id, u.email`).WithArgs(pgxmock.AnyArg()).WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT u.id, u.email`).WithArgs(pgxmock.AnyArg()).WillReturnError(errors.New("timeout"))

	repo := NewUserRepository(mock)
	_, err = repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, auth.ErrNotFound)

	_, err = repo.GetByEmail(context.Background(), "a@x.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
