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
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTransactionNotOwned = errors.New("transaction does not belong to user")
)

// TransactionService records spending and, when a wallet is referenced,
// debits it through the balance engine.
type TransactionService struct {
	store   repository.TransactionStore
	wallets *WalletService
	crypto  *CryptoService
	logger  *zap.Logger
}

func NewTransactionService(store repository.TransactionStore, wallets *WalletService, crypto *CryptoService, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		store:   store,
		wallets: wallets,
		crypto:  crypto,
		logger:  logger,
	}
}

type RecordInput struct {
	Amount      int64
	Description string
	Category    string
	Source      models.InputSource
	WalletID    *uuid.UUID
	StoreName   string
	ReceiptDate *time.Time
}

type RecordResult struct {
	Transaction *models.Transaction
	// WalletBalance is the remaining balance after the debit, present only
	// when a wallet was charged.
	WalletBalance *int64
}

// TransactionView is a transaction with its amount decrypted for display.
type TransactionView struct {
	Transaction *models.Transaction
	Amount      int64
}

// Record validates, persists the transaction, then debits the referenced
// wallet. Sufficiency is checked before the transaction row is written to
// keep the persist-then-debit window small; if the debit still fails (a
// concurrent spend won the race), the transaction row is removed again.
func (s *TransactionService) Record(ctx context.Context, userID uuid.UUID, in RecordInput) (*RecordResult, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	category := models.NormalizeCategory(in.Category)
	source := in.Source
	if source == "" {
		source = models.SourceText
	}

	if in.WalletID != nil {
		wallet, err := s.wallets.GetOwnedWallet(ctx, userID, *in.WalletID)
		if err != nil {
			return nil, err
		}
		available, err := s.crypto.DecryptAmount(wallet.BalanceEncrypted)
		if err != nil {
			return nil, fmt.Errorf("wallet %s: %w", wallet.Name, err)
		}
		if available < in.Amount {
			return nil, &InsufficientFundsError{WalletName: wallet.Name, Requested: in.Amount, Available: available}
		}
	}

	encAmount, err := s.crypto.EncryptAmount(in.Amount)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tx := &models.Transaction{
		ID:              uuid.New(),
		UserID:          userID,
		AmountEncrypted: encAmount,
		Description:     in.Description,
		Category:        category,
		Source:          source,
		WalletID:        in.WalletID,
		StoreName:       in.StoreName,
		ReceiptDate:     in.ReceiptDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	result := &RecordResult{Transaction: tx}
	if in.WalletID != nil {
		balance, err := s.wallets.ApplyExpense(ctx, *in.WalletID, in.Amount, tx.ID)
		if err != nil {
			if delErr := s.store.DeleteTransaction(ctx, tx.ID); delErr != nil {
				// The transaction row now exists without its wallet debit.
				// Keep it loud for manual reconciliation.
				s.logger.Error("Failed to remove transaction after debit failure",
					zap.String("transaction", tx.ID.String()),
					zap.Error(delErr),
				)
			}
			return nil, err
		}
		result.WalletBalance = &balance
	}

	return result, nil
}

func (s *TransactionService) Get(ctx context.Context, userID, id uuid.UUID) (*TransactionView, error) {
	tx, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	amount, err := s.crypto.DecryptAmount(tx.AmountEncrypted)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}
	return &TransactionView{Transaction: tx, Amount: amount}, nil
}

func (s *TransactionService) List(ctx context.Context, filter repository.TransactionFilter) ([]TransactionView, error) {
	transactions, err := s.store.ListTransactions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	views := make([]TransactionView, 0, len(transactions))
	for _, tx := range transactions {
		amount, err := s.crypto.DecryptAmount(tx.AmountEncrypted)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		views = append(views, TransactionView{Transaction: tx, Amount: amount})
	}
	return views, nil
}

// UpdateCategory re-files a transaction; unknown categories fall back to
// Other, same as at creation.
func (s *TransactionService) UpdateCategory(ctx context.Context, userID, id uuid.UUID, category string) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	return s.store.UpdateTransactionCategory(ctx, id, models.NormalizeCategory(category))
}

// Delete removes a transaction. The wallet debit, if any, is deliberately
// not reversed; the audit log keeps the full history.
func (s *TransactionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	return s.store.DeleteTransaction(ctx, id)
}

func (s *TransactionService) getOwned(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	tx, err := s.store.GetTransaction(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if tx.UserID != userID {
		return nil, ErrTransactionNotOwned
	}
	return tx, nil
}
