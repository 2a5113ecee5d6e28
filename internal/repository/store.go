package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Ssathosi/catatanqu/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict is returned by conditional updates when the row
	// changed since it was read. Callers re-read and retry.
	ErrVersionConflict = errors.New("version conflict")
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same
// repository methods run standalone or inside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// WalletStore is the ledger-store boundary consumed by the wallet balance
// engine. Atomic runs fn against a store whose writes all commit together
// or not at all.
type WalletStore interface {
	CreateWallet(ctx context.Context, w *models.Wallet) error
	GetWallet(ctx context.Context, id uuid.UUID) (*models.Wallet, error)
	ListWalletsByUser(ctx context.Context, userID uuid.UUID) ([]*models.Wallet, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balanceEncrypted string, expectedVersion int64) error
	SetWalletActive(ctx context.Context, id uuid.UUID, active bool) error
	AppendWalletLog(ctx context.Context, log *models.WalletLog) error
	ListWalletLogs(ctx context.Context, walletID uuid.UUID) ([]*models.WalletLog, error)
	Atomic(ctx context.Context, fn func(WalletStore) error) error
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	UserID   uuid.UUID
	From     *time.Time
	To       *time.Time
	Category *models.Category
	Limit    int
}

type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]*models.Transaction, error)
	UpdateTransactionCategory(ctx context.Context, id uuid.UUID, category models.Category) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

type SavingsStore interface {
	CreateTarget(ctx context.Context, t *models.SavingsTarget) error
	GetTarget(ctx context.Context, id uuid.UUID) (*models.SavingsTarget, error)
	ListTargetsByUser(ctx context.Context, userID uuid.UUID) ([]*models.SavingsTarget, error)
	UpdateTargetProgress(ctx context.Context, id uuid.UUID, currentAmount int64, completed bool, expectedVersion int64) error
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByChatID(ctx context.Context, chatID int64) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdatePINHash(ctx context.Context, id uuid.UUID, pinHash string) error
	SetSafeMode(ctx context.Context, id uuid.UUID, enabled bool) error
}
