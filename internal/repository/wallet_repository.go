package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ssathosi/catatanqu/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const walletColumns = "id, user_id, name, type, icon, balance_encrypted, version, is_default, is_active, created_at, updated_at"

type WalletRepository struct {
	db     querier
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewWalletRepository(db *pgxpool.Pool, logger *zap.Logger) *WalletRepository {
	return &WalletRepository{
		db:     db,
		pool:   db,
		logger: logger,
	}
}

// Atomic runs fn inside a single database transaction. A repository that is
// already transaction-scoped runs fn directly, so nested calls compose.
func (r *WalletRepository) Atomic(ctx context.Context, fn func(WalletStore) error) error {
	if r.pool == nil {
		return fn(r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	txRepo := &WalletRepository{db: tx, logger: r.logger}
	if err := fn(txRepo); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			r.logger.Error("Transaction rollback failed", zap.Error(rbErr))
		}
		return err
	}

	return tx.Commit(ctx)
}

func (r *WalletRepository) CreateWallet(ctx context.Context, w *models.Wallet) error {
	query := squirrel.Insert("wallets").
		Columns("id", "user_id", "name", "type", "icon", "balance_encrypted", "version", "is_default", "is_active", "created_at", "updated_at").
		Values(w.ID, w.UserID, w.Name, w.Type, w.Icon, w.BalanceEncrypted, w.Version, w.IsDefault, w.IsActive, w.CreatedAt, w.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *WalletRepository) GetWallet(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	query := squirrel.Select(walletColumns).
		From("wallets").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var w models.Wallet
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&w.ID, &w.UserID, &w.Name, &w.Type, &w.Icon, &w.BalanceEncrypted,
		&w.Version, &w.IsDefault, &w.IsActive, &w.CreatedAt, &w.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &w, nil
}

func (r *WalletRepository) ListWalletsByUser(ctx context.Context, userID uuid.UUID) ([]*models.Wallet, error) {
	query := squirrel.Select(walletColumns).
		From("wallets").
		Where(squirrel.Eq{"user_id": userID, "is_active": true}).
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

	var wallets []*models.Wallet
	for rows.Next() {
		var w models.Wallet
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.Name, &w.Type, &w.Icon, &w.BalanceEncrypted,
			&w.Version, &w.IsDefault, &w.IsActive, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, err
		}
		wallets = append(wallets, &w)
	}

	return wallets, rows.Err()
}

// UpdateBalance writes a new encrypted balance only if the wallet row still
// carries expectedVersion. A concurrent writer bumps the version first and
// this update affects zero rows, surfacing ErrVersionConflict.
func (r *WalletRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balanceEncrypted string, expectedVersion int64) error {
	query := squirrel.Update("wallets").
		Set("balance_encrypted", balanceEncrypted).
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

func (r *WalletRepository) SetWalletActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := squirrel.Update("wallets").
		Set("is_active", active).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
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
		return ErrNotFound
	}
	return nil
}

func (r *WalletRepository) AppendWalletLog(ctx context.Context, log *models.WalletLog) error {
	query := squirrel.Insert("wallet_logs").
		Columns("id", "wallet_id", "amount_encrypted", "kind", "transaction_id", "note", "created_at").
		Values(log.ID, log.WalletID, log.AmountEncrypted, log.Kind, log.TransactionID, log.Note, log.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *WalletRepository) ListWalletLogs(ctx context.Context, walletID uuid.UUID) ([]*models.WalletLog, error) {
	query := squirrel.Select("id", "wallet_id", "amount_encrypted", "kind", "transaction_id", "note", "created_at").
		From("wallet_logs").
		Where(squirrel.Eq{"wallet_id": walletID}).
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

	var logs []*models.WalletLog
	for rows.Next() {
		var l models.WalletLog
		if err := rows.Scan(
			&l.ID, &l.WalletID, &l.AmountEncrypted, &l.Kind, &l.TransactionID, &l.Note, &l.CreatedAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}

	return logs, rows.Err()
}
