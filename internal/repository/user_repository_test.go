package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stemsi/exam-platform/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "email", "password_hash", "full_name", "created_at"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestUserRepositoryGetByEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("a@x.com").
		WillReturnRows(pgxmock.NewRows(userColumns).AddRow(id, "a@x.com", "hash", "A", now))

	u, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.Equal(t, "A", u.FullName)
}

func TestUserRepositoryGetByEmailNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("nobody@x.com").
		WillReturnRows(pgxmock.NewRows(userColumns))

	_, err := repo.GetByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepositoryGetByIDNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	id := uuid.New()
	mock.ExpectQuery("FROM users WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(userColumns))

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepositoryEmailExists(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("a@x.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepositoryCreate(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("a@x.com", "hash", "A").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(id, now))

	u := &model.User{Email: "a@x.com", PasswordHash: "hash", FullName: "A"}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, id, u.ID)
	assert.Equal(t, now, u.CreatedAt)
}

func TestUserRepositoryCreateDuplicate(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("a@x.com", "hash", "A").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &model.User{Email: "a@x.com", PasswordHash: "hash", FullName: "A"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}
