package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/protomem/daily-diet/internal/model"
)

// MealDAO scopes every read and write by the owning user. Ownership check and
// mutation run as one conditional statement keyed by id AND user_id, so a
// concurrent update/delete on the same meal cannot interleave between a check
// and a write. Zero affected rows means the meal is absent or owned by
// someone else, the two cases are not distinguished.
type MealDAO struct {
	Logger *slog.Logger
	*DB
}

func NewMealDAO(logger *slog.Logger, db *DB) *MealDAO {
	return &MealDAO{
		Logger: logger.With("dao", "meal"),
		DB:     db,
	}
}

type InsertMealDTO struct {
	ID          model.ID
	Name        string
	Description string
	Date        string
	Hour        string
	Inside      bool
	Owner       model.ID
}

func (dao *MealDAO) Insert(ctx context.Context, dto InsertMealDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := dao.Builder.
		Insert("meals").
		Columns("id", "name", "description", "user_id", "date", "hour", "inside").
		Values(dto.ID, dto.Name, dto.Description, dto.Owner, dto.Date, dto.Hour, dto.Inside).
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

		return "", err
	}

	logger.Debug("success query execute", "insertId", id)

	return id, nil
}

func (dao *MealDAO) GetOwned(ctx context.Context, id, owner model.ID) (model.Meal, error) {
	logger := dao.Logger.With("query", "getOwned")

	query, args, err := dao.Builder.
		Select("*").
		From("meals").
		Where(squirrel.Eq{"id": id, "user_id": owner}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Meal{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var meal model.Meal
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&meal); err != nil {
		if IsNoRows(err) {
			return model.Meal{}, model.NewError("meal", model.ErrNotPermitted)
		}

		logger.Warn("failed query execute", "error", err)

		return model.Meal{}, err
	}

	return meal, nil
}

type UpdateMealDTO struct {
	Name        string
	Description string
	Date        string
	Hour        string
	Inside      bool
}

// UpdateOwned replaces every mutable field and stamps updated_at. user_id is
// never part of the SET clause.
func (dao *MealDAO) UpdateOwned(ctx context.Context, id, owner model.ID, dto UpdateMealDTO) error {
	logger := dao.Logger.With("query", "updateOwned")

	query, args, err := dao.Builder.
		Update("meals").
		SetMap(map[string]any{
			"name":        dto.Name,
			"description": dto.Description,
			"date":        dto.Date,
			"hour":        dto.Hour,
			"inside":      dto.Inside,
			"updated_at":  time.Now(),
		}).
		Where(squirrel.Eq{"id": id, "user_id": owner}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	res, err := dao.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Warn("failed query execute", "error", err)

		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.NewError("meal", model.ErrNotPermitted)
	}

	logger.Debug("success query execute", "updateId", id)

	return nil
}

func (dao *MealDAO) DeleteOwned(ctx context.Context, id, owner model.ID) error {
	logger := dao.Logger.With("query", "deleteOwned")

	query, args, err := dao.Builder.
		Delete("meals").
		Where(squirrel.Eq{"id": id, "user_id": owner}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	res, err := dao.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Warn("failed query execute", "error", err)

		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.NewError("meal", model.ErrNotPermitted)
	}

	logger.Debug("success query execute", "deleteId", id)

	return nil
}

// FindByOwner returns the owner's meals in storage order. An empty result is
// not an error here, the empty-list policy lives with the caller.
func (dao *MealDAO) FindByOwner(ctx context.Context, owner model.ID) ([]model.Meal, error) {
	logger := dao.Logger.With("query", "findByOwner")

	query, args, err := dao.Builder.
		Select("*").
		From("meals").
		Where(squirrel.Eq{"user_id": owner}).
		ToSql()
	if err != nil {
		return []model.Meal{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	meals := make([]model.Meal, 0)
	if err := dao.SelectContext(ctx, &meals, query, args...); err != nil {
		if IsNoRows(err) {
			return []model.Meal{}, nil
		}

		logger.Warn("failed query execute", "error", err)

		return []model.Meal{}, err
	}

	logger.Debug("success query execute", "countMeals", len(meals))

	return meals, nil
}

// Metrics aggregates the owner's meals with one statement per figure,
// mirroring the per-count queries the service has always issued.
func (dao *MealDAO) Metrics(ctx context.Context, owner model.ID) (model.Metrics, error) {
	var metrics model.Metrics

	total, err := dao.countWhere(ctx, squirrel.Eq{"user_id": owner})
	if err != nil {
		return model.Metrics{}, err
	}
	metrics.Total = total

	onDiet, err := dao.countWhere(ctx, squirrel.Eq{"user_id": owner, "inside": true})
	if err != nil {
		return model.Metrics{}, err
	}
	metrics.OnDiet = onDiet

	offDiet, err := dao.countWhere(ctx, squirrel.Eq{"user_id": owner, "inside": false})
	if err != nil {
		return model.Metrics{}, err
	}
	metrics.OffDiet = offDiet

	query, args, err := dao.Builder.
		Select("name").
		From("meals").
		Where(squirrel.Eq{"user_id": owner, "inside": true}).
		ToSql()
	if err != nil {
		return model.Metrics{}, err
	}

	dao.Logger.Debug("build query", "sql", query, "args", args)

	names := make([]string, 0)
	if err := dao.SelectContext(ctx, &names, query, args...); err != nil && !IsNoRows(err) {
		dao.Logger.Warn("failed query execute", "error", err)

		return model.Metrics{}, err
	}
	metrics.Sequence = names

	return metrics, nil
}

func (dao *MealDAO) countWhere(ctx context.Context, where squirrel.Eq) (int, error) {
	query, args, err := dao.Builder.
		Select("count(id)").
		From("meals").
		Where(where).
		ToSql()
	if err != nil {
		return 0, err
	}

	dao.Logger.Debug("build query", "sql", query, "args", args)

	var count int
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&count); err != nil {
		dao.Logger.Warn("failed query execute", "error", err)

		return 0, err
	}

	return count, nil
}
