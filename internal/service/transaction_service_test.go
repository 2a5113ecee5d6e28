package service

import (
	"context"
	"testing"

	"github.com/Ssathosi/catatanqu/internal/models"
	"github.com/Ssathosi/catatanqu/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTransactionService(t *testing.T, store *repository.MemoryStore) (*TransactionService, *WalletService) {
	t.Helper()
	wallets, crypto := newWalletService(t, store)
	return NewTransactionService(store, wallets, crypto, zap.NewNop()), wallets
}

func TestRecordWithoutWallet(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc, _ := newTransactionService(t, store)
	userID := uuid.New()

	result, err := svc.Record(ctx, userID, RecordInput{
		Amount:      25000,
		Description: "nasi goreng",
		Category:    "Food",
	})
	require.NoError(t, err)
	assert.Nil(t, result.WalletBalance)
	assert.Equal(t, models.CategoryFood, result.Transaction.Category)
	assert.Equal(t, models.SourceText, result.Transaction.Source)

	view, err := svc.Get(ctx, userID, result.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25000), view.Amount)
}

func TestRecordUnknownCategoryFallsBackToOther(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc, _ := newTransactionService(t, store)

	result, err := svc.Record(ctx, uuid.New(), RecordInput{
		Amount:      10000,
		Description: "mystery",
		Category:    "Groceries",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryOther, result.Transaction.Category)
}

func TestRecordDebitsWallet(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc, wallets := newTransactionService(t, store)
	userID := uuid.New()

	wallet, err := wallets.CreateWallet(ctx, userID, "Cash", models.WalletTypeCash, "", 100000, true)
	require.NoError(t, err)

	result, err := svc.Record(ctx, userID, RecordInput{
		Amount:      40000,
		Description: "groceries",
		Category:    "Food",
		WalletID:    &wallet.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, result.WalletBalance)
	assert.Equal(t, int64(60000), *result.WalletBalance)

	// The expense log references the transaction that caused it.
	logs, err := wallets.Logs(ctx, userID, wallet.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.NotNil(t, logs[1].Log.TransactionID)
	assert.Equal(t, result.Transaction.ID, *logs[1].Log.TransactionID)
}

func TestRecordInsufficientFundsWritesNothing(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc, wallets := newTransactionService(t, store)
	userID := uuid.New()

	wallet, err := wallets.CreateWallet(ctx, userID, "Cash", models.WalletTypeCash, "", 10000, true)
	require.NoError(t, err)

	_, err = svc.Record(ctx, userID, RecordInput{
		Amount:      40000,
		Description: "too expensive",
		Category:    "Shopping",
		WalletID:    &wallet.ID,
	})
	var insufficient *InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)

	views, err := svc.List(ctx, repository.TransactionFilter{UserID: userID})
	require.NoError(t, err)
	assert.Empty(t, views)

	balance, err := wallets.Balance(ctx, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), balance)
}

func TestRecordCompensatesFailedDebit(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	crypto, err := NewCryptoService("test-passphrase")
	require.NoError(t, err)
	userID := uuid.New()

	wallets := NewWalletService(store, crypto, zap.NewNop())
	wallet, err := wallets.CreateWallet(ctx, userID, "Cash", models.WalletTypeCash, "", 100000, true)
	require.NoError(t, err)

	// Debits hit permanent version conflicts; the sufficiency pre-check
	// still passes, so the failure happens after the row is persisted.
	stuck := NewWalletService(&conflictStore{WalletStore: store, remaining: maxBalanceRetries}, crypto, zap.NewNop())
	svc := NewTransactionService(store, stuck, crypto, zap.NewNop())

	_, err = svc.Record(ctx, userID, RecordInput{
		Amount:      40000,
		Description: "groceries",
		Category:    "Food",
		WalletID:    &wallet.ID,
	})
	assert.ErrorIs(t, err, ErrConcurrentModification)

	// The compensating delete removed the orphaned row.
	views, err := svc.List(ctx, repository.TransactionFilter{UserID: userID})
	require.NoError(t, err)
	assert.Empty(t, views)

	balance, err := wallets.Balance(ctx, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), balance)
}

func TestRecordRejectsForeignWallet(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc, wallets := newTransactionService(t, store)

	wallet, err := wallets.CreateWallet(ctx, uuid.New(), "Cash", models.WalletTypeCash, "", 100000, true)
	require.NoError(t, err)

	_, err = svc.Record(ctx, uuid.New(), RecordInput{
		Amount:      1000,
		Description: "sneaky",
		Category:    "Other",
		WalletID:    &wallet.ID,
	})
	assert.ErrorIs(t, err, ErrWalletNotOwned)
}

func TestUpdateCategoryAndDelete(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc, _ := newTransactionService(t, store)
	userID := uuid.New()

	result, err := svc.Record(ctx, userID, RecordInput{
		Amount:      5000,
		Description: "bus",
		Category:    "Food",
	})
	require.NoError(t, err)
	txID := result.Transaction.ID

	require.NoError(t, svc.UpdateCategory(ctx, userID, txID, "Transport"))
	view, err := svc.Get(ctx, userID, txID)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryTransport, view.Transaction.Category)

	// Another user can neither read nor touch it.
	err = svc.UpdateCategory(ctx, uuid.New(), txID, "Bills")
	assert.ErrorIs(t, err, ErrTransactionNotOwned)

	require.NoError(t, svc.Delete(ctx, userID, txID))
	_, err = svc.Get(ctx, userID, txID)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}
