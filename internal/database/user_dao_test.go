package database

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/protomem/daily-diet/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRows(users ...model.User) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "created_at", "name", "session_id"})
	for _, u := range users {
		rows.AddRow(u.ID, u.CreatedAt, u.Name, u.SessionToken)
	}
	return rows
}

func TestUserDAO_Get(t *testing.T) {
	db, mock := newTestDB(t)
	dao := NewUserDAO(newTestLogger(), db)

	user := model.User{
		ID:           "0b2f3f71-94d7-4be5-b2f9-1f2f61d4f0a1",
		CreatedAt:    time.Now(),
		Name:         "alice",
		SessionToken: "token-a",
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM users WHERE id = $1 LIMIT 1`)).
		WithArgs(user.ID).
		WillReturnRows(userRows(user))

	got, err := dao.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Name, got.Name)
	assert.Equal(t, user.SessionToken, got.SessionToken)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDAO_Get_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	dao := NewUserDAO(newTestLogger(), db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM users WHERE id = $1 LIMIT 1`)).
		WithArgs("missing").
		WillReturnRows(userRows())

	_, err := dao.Get(context.Background(), "missing")
	require.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDAO_GetByName(t *testing.T) {
	db, mock := newTestDB(t)
	dao := NewUserDAO(newTestLogger(), db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM users WHERE name = $1 LIMIT 1`)).
		WithArgs("nobody").
		WillReturnRows(userRows())

	_, err := dao.GetByName(context.Background(), "nobody")
	require.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDAO_GetBySessionTokenAndID(t *testing.T) {
	db, mock := newTestDB(t)
	dao := NewUserDAO(newTestLogger(), db)

	user := model.User{
		ID:           "0b2f3f71-94d7-4be5-b2f9-1f2f61d4f0a1",
		Name:         "alice",
		SessionToken: "token-a",
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM users WHERE id = $1 AND session_id = $2 LIMIT 1`)).
		WithArgs(user.ID, user.SessionToken).
		WillReturnRows(userRows(user))

	got, err := dao.GetBySessionTokenAndID(context.Background(), user.SessionToken, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	// Token matching a different id must not resolve.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM users WHERE id = $1 AND session_id = $2 LIMIT 1`)).
		WithArgs("other-id", user.SessionToken).
		WillReturnRows(userRows())

	_, err = dao.GetBySessionTokenAndID(context.Background(), user.SessionToken, "other-id")
	require.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDAO_Insert(t *testing.T) {
	db, mock := newTestDB(t)
	dao := NewUserDAO(newTestLogger(), db)

	dto := InsertUserDTO{
		ID:           "0b2f3f71-94d7-4be5-b2f9-1f2f61d4f0a1",
		Name:         "alice",
		SessionToken: "token-a",
	}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (id,name,session_id) VALUES ($1,$2,$3) RETURNING id`)).
		WithArgs(dto.ID, dto.Name, dto.SessionToken).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(dto.ID))

	id, err := dao.Insert(context.Background(), dto)
	require.NoError(t, err)
	assert.Equal(t, dto.ID, id)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDAO_Insert_UniqueViolation(t *testing.T) {
	db, mock := newTestDB(t)
	dao := NewUserDAO(newTestLogger(), db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (id,name,session_id) VALUES ($1,$2,$3) RETURNING id`)).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	_, err := dao.Insert(context.Background(), InsertUserDTO{ID: "x", Name: "alice", SessionToken: "dup"})
	require.ErrorIs(t, err, model.ErrExists)

	require.NoError(t, mock.ExpectationsWereMet())
}
