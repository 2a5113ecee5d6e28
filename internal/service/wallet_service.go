package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ssathosi/catatanqu/internal/models"
	"github.com/Ssathosi/catatanqu/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrWalletNotFound         = errors.New("wallet not found")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInvalidWalletType      = errors.New("invalid wallet type")
	ErrSameWallet             = errors.New("cannot transfer to the same wallet")
	ErrWalletNotOwned         = errors.New("wallet does not belong to user")
	ErrAlreadyInitialized     = errors.New("wallet already has log entries")
	ErrConcurrentModification = errors.New("wallet was modified concurrently")
)

// InsufficientFundsError reports a rejected debit with the amounts needed
// for user-facing messaging.
type InsufficientFundsError struct {
	WalletName string
	Requested  int64
	Available  int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in %s: requested %d, available %d", e.WalletName, e.Requested, e.Available)
}

// maxBalanceRetries bounds the re-read/recompute/re-attempt loop on
// optimistic-concurrency conflicts.
const maxBalanceRetries = 3

// WalletService is the balance-mutation engine. Every mutation re-reads the
// wallet, decrypts the balance, computes the new one, and commits the
// conditional balance write together with exactly one audit log entry per
// leg. Sufficiency is re-validated at write time, not trusted from earlier
// reads.
type WalletService struct {
	store  repository.WalletStore
	crypto *CryptoService
	logger *zap.Logger
}

func NewWalletService(store repository.WalletStore, crypto *CryptoService, logger *zap.Logger) *WalletService {
	return &WalletService{
		store:  store,
		crypto: crypto,
		logger: logger,
	}
}

// WalletBalance pairs a wallet with its decrypted balance for display.
// The plaintext must not be cached across conversational turns.
type WalletBalance struct {
	Wallet  *models.Wallet
	Balance int64
}

// WalletLogEntry is an audit entry with its delta decrypted and signed.
type WalletLogEntry struct {
	Log   *models.WalletLog
	Delta int64
}

// CreateWallet creates an inactive-balance wallet row and applies the
// initial amount as a logged "initial" mutation, never bypassing the audit
// trail.
func (s *WalletService) CreateWallet(ctx context.Context, userID uuid.UUID, name string, walletType models.WalletType, icon string, initialBalance int64, isDefault bool) (*models.Wallet, error) {
	if name == "" {
		return nil, fmt.Errorf("wallet name is empty")
	}
	if !walletType.Valid() {
		return nil, ErrInvalidWalletType
	}
	if initialBalance < 0 {
		return nil, fmt.Errorf("initial balance must be non-negative, got %d", initialBalance)
	}
	if icon == "" {
		icon = walletType.Icon()
	}

	zero, err := s.crypto.EncryptAmount(0)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	wallet := &models.Wallet{
		ID:               uuid.New(),
		UserID:           userID,
		Name:             name,
		Type:             walletType,
		Icon:             icon,
		BalanceEncrypted: zero,
		Version:          1,
		IsDefault:        isDefault,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.CreateWallet(ctx, wallet); err != nil {
		return nil, fmt.Errorf("create wallet: %w", err)
	}

	if _, err := s.ApplyInitial(ctx, wallet.ID, initialBalance); err != nil {
		return nil, err
	}

	return s.store.GetWallet(ctx, wallet.ID)
}

// ApplyInitial sets the opening balance. It is valid only once, on a wallet
// with no prior log entries.
func (s *WalletService) ApplyInitial(ctx context.Context, walletID uuid.UUID, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("initial amount must be non-negative, got %d", amount)
	}

	logs, err := s.store.ListWalletLogs(ctx, walletID)
	if err != nil {
		return 0, fmt.Errorf("list wallet logs: %w", err)
	}
	if len(logs) > 0 {
		return 0, ErrAlreadyInitialized
	}

	return s.applyDelta(ctx, walletID, amount, models.LogKindInitial, nil, "")
}

// ApplyTopup credits the wallet.
func (s *WalletService) ApplyTopup(ctx context.Context, walletID uuid.UUID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return s.applyDelta(ctx, walletID, amount, models.LogKindTopup, nil, "")
}

// ApplyExpense debits the wallet for a recorded transaction. The
// sufficient-funds check happens inside the mutation, against the balance
// as of write time.
func (s *WalletService) ApplyExpense(ctx context.Context, walletID uuid.UUID, amount int64, transactionID uuid.UUID) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return s.applyDelta(ctx, walletID, -amount, models.LogKindExpense, &transactionID, "")
}

// ApplyTransfer moves amount between two wallets. Both legs, with their
// transfer_out/transfer_in log entries, commit in one atomic unit; a
// failure anywhere leaves both balances untouched.
func (s *WalletService) ApplyTransfer(ctx context.Context, fromID, toID uuid.UUID, amount int64) (fromBalance, toBalance int64, err error) {
	if amount <= 0 {
		return 0, 0, ErrInvalidAmount
	}
	if fromID == toID {
		return 0, 0, ErrSameWallet
	}

	for attempt := 0; attempt < maxBalanceRetries; attempt++ {
		from, err := s.getActiveWallet(ctx, fromID)
		if err != nil {
			return 0, 0, err
		}
		to, err := s.getActiveWallet(ctx, toID)
		if err != nil {
			return 0, 0, err
		}

		fromBal, err := s.crypto.DecryptAmount(from.BalanceEncrypted)
		if err != nil {
			return 0, 0, fmt.Errorf("wallet %s: %w", from.Name, err)
		}
		toBal, err := s.crypto.DecryptAmount(to.BalanceEncrypted)
		if err != nil {
			return 0, 0, fmt.Errorf("wallet %s: %w", to.Name, err)
		}

		if fromBal < amount {
			return 0, 0, &InsufficientFundsError{WalletName: from.Name, Requested: amount, Available: fromBal}
		}

		newFrom, err := s.crypto.EncryptAmount(fromBal - amount)
		if err != nil {
			return 0, 0, err
		}
		newTo, err := s.crypto.EncryptAmount(toBal + amount)
		if err != nil {
			return 0, 0, err
		}
		encAmount, err := s.crypto.EncryptAmount(amount)
		if err != nil {
			return 0, 0, err
		}

		now := time.Now()
		err = s.store.Atomic(ctx, func(store repository.WalletStore) error {
			if err := store.UpdateBalance(ctx, from.ID, newFrom, from.Version); err != nil {
				return err
			}
			if err := store.UpdateBalance(ctx, to.ID, newTo, to.Version); err != nil {
				return err
			}
			if err := store.AppendWalletLog(ctx, &models.WalletLog{
				ID:              uuid.New(),
				WalletID:        from.ID,
				AmountEncrypted: encAmount,
				Kind:            models.LogKindTransferOut,
				Note:            "to " + to.Name,
				CreatedAt:       now,
			}); err != nil {
				return err
			}
			return store.AppendWalletLog(ctx, &models.WalletLog{
				ID:              uuid.New(),
				WalletID:        to.ID,
				AmountEncrypted: encAmount,
				Kind:            models.LogKindTransferIn,
				Note:            "from " + from.Name,
				CreatedAt:       now,
			})
		})
		if errors.Is(err, repository.ErrVersionConflict) {
			s.logger.Warn("Transfer hit version conflict, retrying",
				zap.String("from", from.ID.String()),
				zap.String("to", to.ID.String()),
				zap.Int("attempt", attempt+1),
			)
			continue
		}
		if err != nil {
			return 0, 0, fmt.Errorf("apply transfer: %w", err)
		}
		return fromBal - amount, toBal + amount, nil
	}

	return 0, 0, ErrConcurrentModification
}

// Balance decrypts and returns the current balance of a wallet.
func (s *WalletService) Balance(ctx context.Context, walletID uuid.UUID) (int64, error) {
	w, err := s.getActiveWallet(ctx, walletID)
	if err != nil {
		return 0, err
	}
	balance, err := s.crypto.DecryptAmount(w.BalanceEncrypted)
	if err != nil {
		return 0, fmt.Errorf("wallet %s: %w", w.Name, err)
	}
	return balance, nil
}

// ListWallets returns the user's active wallets with decrypted balances and
// their total.
func (s *WalletService) ListWallets(ctx context.Context, userID uuid.UUID) ([]WalletBalance, int64, error) {
	wallets, err := s.store.ListWalletsByUser(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("list wallets: %w", err)
	}

	balances := make([]WalletBalance, 0, len(wallets))
	var total int64
	for _, w := range wallets {
		balance, err := s.crypto.DecryptAmount(w.BalanceEncrypted)
		if err != nil {
			return nil, 0, fmt.Errorf("wallet %s: %w", w.Name, err)
		}
		balances = append(balances, WalletBalance{Wallet: w, Balance: balance})
		total += balance
	}
	return balances, total, nil
}

// GetOwnedWallet fetches a wallet and verifies ownership.
func (s *WalletService) GetOwnedWallet(ctx context.Context, userID, walletID uuid.UUID) (*models.Wallet, error) {
	w, err := s.getActiveWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if w.UserID != userID {
		return nil, ErrWalletNotOwned
	}
	return w, nil
}

// DeleteWallet soft-deletes: the row stays so historical log entries keep
// their referent.
func (s *WalletService) DeleteWallet(ctx context.Context, userID, walletID uuid.UUID) error {
	if _, err := s.GetOwnedWallet(ctx, userID, walletID); err != nil {
		return err
	}
	if err := s.store.SetWalletActive(ctx, walletID, false); err != nil {
		return fmt.Errorf("deactivate wallet: %w", err)
	}
	return nil
}

// Logs returns the wallet's audit trail with decrypted, signed deltas.
func (s *WalletService) Logs(ctx context.Context, userID, walletID uuid.UUID) ([]WalletLogEntry, error) {
	if _, err := s.GetOwnedWallet(ctx, userID, walletID); err != nil {
		return nil, err
	}

	logs, err := s.store.ListWalletLogs(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("list wallet logs: %w", err)
	}

	entries := make([]WalletLogEntry, 0, len(logs))
	for _, l := range logs {
		magnitude, err := s.crypto.DecryptAmount(l.AmountEncrypted)
		if err != nil {
			return nil, fmt.Errorf("log %s: %w", l.ID, err)
		}
		delta := magnitude
		if l.Kind == models.LogKindExpense || l.Kind == models.LogKindTransferOut {
			delta = -magnitude
		}
		entries = append(entries, WalletLogEntry{Log: l, Delta: delta})
	}
	return entries, nil
}

// applyDelta is the single-wallet read-decrypt-compute-encrypt-write cycle.
// The balance write and the log append share one atomic unit; a version
// conflict restarts the whole cycle against the fresh balance.
func (s *WalletService) applyDelta(ctx context.Context, walletID uuid.UUID, delta int64, kind models.WalletLogKind, transactionID *uuid.UUID, note string) (int64, error) {
	magnitude := delta
	if magnitude < 0 {
		magnitude = -magnitude
	}

	for attempt := 0; attempt < maxBalanceRetries; attempt++ {
		w, err := s.getActiveWallet(ctx, walletID)
		if err != nil {
			return 0, err
		}

		balance, err := s.crypto.DecryptAmount(w.BalanceEncrypted)
		if err != nil {
			return 0, fmt.Errorf("wallet %s: %w", w.Name, err)
		}

		if delta < 0 && balance < magnitude {
			return 0, &InsufficientFundsError{WalletName: w.Name, Requested: magnitude, Available: balance}
		}

		newBalance := balance + delta
		encBalance, err := s.crypto.EncryptAmount(newBalance)
		if err != nil {
			return 0, err
		}
		encMagnitude, err := s.crypto.EncryptAmount(magnitude)
		if err != nil {
			return 0, err
		}

		err = s.store.Atomic(ctx, func(store repository.WalletStore) error {
			if err := store.UpdateBalance(ctx, walletID, encBalance, w.Version); err != nil {
				return err
			}
			return store.AppendWalletLog(ctx, &models.WalletLog{
				ID:              uuid.New(),
				WalletID:        walletID,
				AmountEncrypted: encMagnitude,
				Kind:            kind,
				TransactionID:   transactionID,
				Note:            note,
				CreatedAt:       time.Now(),
			})
		})
		if errors.Is(err, repository.ErrVersionConflict) {
			s.logger.Warn("Balance update hit version conflict, retrying",
				zap.String("wallet", walletID.String()),
				zap.String("kind", string(kind)),
				zap.Int("attempt", attempt+1),
			)
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("apply %s: %w", kind, err)
		}
		return newBalance, nil
	}

	return 0, ErrConcurrentModification
}

func (s *WalletService) getActiveWallet(ctx context.Context, walletID uuid.UUID) (*models.Wallet, error) {
	w, err := s.store.GetWallet(ctx, walletID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	if !w.IsActive {
		return nil, ErrWalletNotFound
	}
	return w, nil
}
