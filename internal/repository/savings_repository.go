package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Ssathosi/catatanqu/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const savingsColumns = "id, user_id, name, target_amount, current_amount, deadline_months, completed, version, created_at, updated_at"

type SavingsRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSavingsRepository(db *pgxpool.Pool, logger *zap.Logger) *SavingsRepository {
	return &SavingsRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SavingsRepository) CreateTarget(ctx context.Context, t *models.SavingsTarget) error {
	query := squirrel.Insert("savings_targets").
		Columns("id", "user_id", "name", "target_amount", "current_amount", "deadline_months", "completed", "version", "created_at", "updated_at").
		Values(t.ID, t.UserID, t.Name, t.TargetAmount, t.CurrentAmount, t.DeadlineMonths, t.Completed, t.Version, t.CreatedAt, t.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *SavingsRepository) GetTarget(ctx context.Context, id uuid.UUID) (*models.SavingsTarget, error) {
	query := squirrel.Select(savingsColumns).
		From("savings_targets").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var t models.SavingsTarget
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&t.ID, &t.UserID, &t.Name, &t.TargetAmount, &t.CurrentAmount,
		&t.DeadlineMonths, &t.Completed, &t.Version, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *SavingsRepository) ListTargetsByUser(ctx context.Context, userID uuid.UUID) ([]*models.SavingsTarget, error) {
	query := squirrel.Select(savingsColumns).
		From("savings_targets").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var targets []*models.SavingsTarget
	for rows.Next() {
		var t models.SavingsTarget
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Name, &t.TargetAmount, &t.CurrentAmount,
			&t.DeadlineMonths, &t.Completed, &t.Version, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		targets = append(targets, &t)
	}

	return targets, rows.Err()
}

// UpdateTargetProgress writes current_amount and completed together under the
// same conditional-update discipline as wallet balances.
func (r *SavingsRepository) UpdateTargetProgress(ctx context.Context, id uuid.UUID, currentAmount int64, completed bool, expectedVersion int64) error {
	query := squirrel.Update("savings_targets").
		Set("current_amount", currentAmount).
		Set("completed", completed).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "version": expectedVersion}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	return nil
}
