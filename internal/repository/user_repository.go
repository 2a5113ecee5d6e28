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

type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

func (r *UserRepository) CreateUser(ctx context.Context, u *models.User) error {
	query := squirrel.Insert("users").
		Columns("id", "chat_id", "username", "first_name", "pin_hash", "safe_mode", "created_at", "updated_at").
		Values(u.ID, u.ChatID, u.Username, u.FirstName, u.PINHash, u.SafeMode, u.CreatedAt, u.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *UserRepository) GetUserByChatID(ctx context.Context, chatID int64) (*models.User, error) {
	return r.getUser(ctx, squirrel.Eq{"chat_id": chatID})
}

func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getUser(ctx, squirrel.Eq{"id": id})
}

func (r *UserRepository) getUser(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	query := squirrel.Select("id", "chat_id", "username", "first_name", "pin_hash", "safe_mode", "created_at", "updated_at").
		From("users").
		Where(where).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var u models.User
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&u.ID, &u.ChatID, &u.Username, &u.FirstName, &u.PINHash, &u.SafeMode, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *UserRepository) UpdatePINHash(ctx context.Context, id uuid.UUID, pinHash string) error {
	return r.updateUser(ctx, id, squirrel.Eq{"pin_hash": pinHash})
}

func (r *UserRepository) SetSafeMode(ctx context.Context, id uuid.UUID, enabled bool) error {
	return r.updateUser(ctx, id, squirrel.Eq{"safe_mode": enabled})
}

func (r *UserRepository) updateUser(ctx context.Context, id uuid.UUID, set squirrel.Eq) error {
	builder := squirrel.Update("users").
		Where(squirrel.Eq{"id": id}).
		Set("updated_at", time.Now()).
		PlaceholderFormat(squirrel.Dollar)
	for col, val := range set {
		builder = builder.Set(col, val)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
