package database

import (
	"context"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/protomem/daily-diet/internal/model"
)

type UserDAO struct {
	Logger *slog.Logger
	*DB
}

func NewUserDAO(logger *slog.Logger, db *DB) *UserDAO {
	return &UserDAO{
		Logger: logger.With("dao", "user"),
		DB:     db,
	}
}

func (dao *UserDAO) Get(ctx context.Context, id model.ID) (model.User, error) {
	return dao.getWhere(ctx, "get", squirrel.Eq{"id": id})
}

// GetByName backs the duplicate-name pre-check at registration. Name
// uniqueness is not a storage constraint, this exact-match lookup is the only
// guard.
func (dao *UserDAO) GetByName(ctx context.Context, name string) (model.User, error) {
	return dao.getWhere(ctx, "getByName", squirrel.Eq{"name": name})
}

func (dao *UserDAO) GetBySessionToken(ctx context.Context, token string) (model.User, error) {
	return dao.getWhere(ctx, "getBySessionToken", squirrel.Eq{"session_id": token})
}

// GetBySessionTokenAndID resolves the session user only when it also matches
// the requested user id. Scoped listing and metrics authorize through this
// single combined lookup.
func (dao *UserDAO) GetBySessionTokenAndID(ctx context.Context, token string, id model.ID) (model.User, error) {
	return dao.getWhere(ctx, "getBySessionTokenAndID", squirrel.Eq{"session_id": token, "id": id})
}

func (dao *UserDAO) getWhere(ctx context.Context, queryName string, where squirrel.Eq) (model.User, error) {
	logger := dao.Logger.With("query", queryName)

	query, args, err := dao.Builder.
		Select("*").
		From("users").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var user model.User
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&user); err != nil {
		if IsNoRows(err) {
			return model.User{}, model.NewError("user", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.User{}, err
	}

	return user, nil
}

type InsertUserDTO struct {
	ID           model.ID
	Name         string
	SessionToken string
}

func (dao *UserDAO) Insert(ctx context.Context, dto InsertUserDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := dao.Builder.
		Insert("users").
		Columns("id", "name", "session_id").
		Values(dto.ID, dto.Name, dto.SessionToken).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return "", err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var id model.ID
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsUniqueViolation(err) {
			return "", model.NewError("user", model.ErrExists)
		}

		return "", err
	}

	logger.Debug("success query execute", "insertId", id)

	return id, nil
}
