package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/Ssathosi/catatanqu/internal/models"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of every store interface. It
// keeps the same version-conflict and rollback semantics as the Postgres
// repositories, which makes it a drop-in substitute for tests and for
// seeding dry runs.
type MemoryStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*models.User
	wallets      map[uuid.UUID]*models.Wallet
	walletLogs   []*models.WalletLog
	transactions map[uuid.UUID]*models.Transaction
	targets      map[uuid.UUID]*models.SavingsTarget
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[uuid.UUID]*models.User),
		wallets:      make(map[uuid.UUID]*models.Wallet),
		transactions: make(map[uuid.UUID]*models.Transaction),
		targets:      make(map[uuid.UUID]*models.SavingsTarget),
	}
}

// Atomic serializes writers and restores the pre-call state when fn fails,
// mirroring a database rollback.
func (m *MemoryStore) Atomic(ctx context.Context, fn func(WalletStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	walletsSnapshot := make(map[uuid.UUID]*models.Wallet, len(m.wallets))
	for id, w := range m.wallets {
		copied := *w
		walletsSnapshot[id] = &copied
	}
	logsLen := len(m.walletLogs)

	if err := fn(&memoryTx{store: m}); err != nil {
		m.wallets = walletsSnapshot
		m.walletLogs = m.walletLogs[:logsLen]
		return err
	}
	return nil
}

// memoryTx exposes the store without re-locking; Atomic already holds the
// mutex for the whole unit of work.
type memoryTx struct {
	store *MemoryStore
}

func (t *memoryTx) Atomic(ctx context.Context, fn func(WalletStore) error) error {
	return fn(t)
}

func (t *memoryTx) CreateWallet(ctx context.Context, w *models.Wallet) error {
	return t.store.createWallet(w)
}

func (t *memoryTx) GetWallet(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	return t.store.getWallet(id)
}

func (t *memoryTx) ListWalletsByUser(ctx context.Context, userID uuid.UUID) ([]*models.Wallet, error) {
	return t.store.listWalletsByUser(userID)
}

func (t *memoryTx) UpdateBalance(ctx context.Context, id uuid.UUID, balanceEncrypted string, expectedVersion int64) error {
	return t.store.updateBalance(id, balanceEncrypted, expectedVersion)
}

func (t *memoryTx) SetWalletActive(ctx context.Context, id uuid.UUID, active bool) error {
	return t.store.setWalletActive(id, active)
}

func (t *memoryTx) AppendWalletLog(ctx context.Context, log *models.WalletLog) error {
	return t.store.appendWalletLog(log)
}

func (t *memoryTx) ListWalletLogs(ctx context.Context, walletID uuid.UUID) ([]*models.WalletLog, error) {
	return t.store.listWalletLogs(walletID)
}

// ---- WalletStore ----

func (m *MemoryStore) CreateWallet(ctx context.Context, w *models.Wallet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createWallet(w)
}

func (m *MemoryStore) GetWallet(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getWallet(id)
}

func (m *MemoryStore) ListWalletsByUser(ctx context.Context, userID uuid.UUID) ([]*models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listWalletsByUser(userID)
}

func (m *MemoryStore) UpdateBalance(ctx context.Context, id uuid.UUID, balanceEncrypted string, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateBalance(id, balanceEncrypted, expectedVersion)
}

func (m *MemoryStore) SetWalletActive(ctx context.Context, id uuid.UUID, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setWalletActive(id, active)
}

func (m *MemoryStore) AppendWalletLog(ctx context.Context, log *models.WalletLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendWalletLog(log)
}

func (m *MemoryStore) ListWalletLogs(ctx context.Context, walletID uuid.UUID) ([]*models.WalletLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listWalletLogs(walletID)
}

func (m *MemoryStore) createWallet(w *models.Wallet) error {
	copied := *w
	m.wallets[w.ID] = &copied
	return nil
}

func (m *MemoryStore) getWallet(id uuid.UUID) (*models.Wallet, error) {
	w, ok := m.wallets[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *w
	return &copied, nil
}

func (m *MemoryStore) listWalletsByUser(userID uuid.UUID) ([]*models.Wallet, error) {
	var wallets []*models.Wallet
	for _, w := range m.wallets {
		if w.UserID == userID && w.IsActive {
			copied := *w
			wallets = append(wallets, &copied)
		}
	}
	sort.Slice(wallets, func(i, j int) bool {
		return wallets[i].CreatedAt.Before(wallets[j].CreatedAt)
	})
	return wallets, nil
}

func (m *MemoryStore) updateBalance(id uuid.UUID, balanceEncrypted string, expectedVersion int64) error {
	w, ok := m.wallets[id]
	if !ok {
		return ErrNotFound
	}
	if w.Version != expectedVersion {
		return ErrVersionConflict
	}
	w.BalanceEncrypted = balanceEncrypted
	w.Version++
	return nil
}

func (m *MemoryStore) setWalletActive(id uuid.UUID, active bool) error {
	w, ok := m.wallets[id]
	if !ok {
		return ErrNotFound
	}
	w.IsActive = active
	return nil
}

func (m *MemoryStore) appendWalletLog(log *models.WalletLog) error {
	copied := *log
	m.walletLogs = append(m.walletLogs, &copied)
	return nil
}

func (m *MemoryStore) listWalletLogs(walletID uuid.UUID) ([]*models.WalletLog, error) {
	var logs []*models.WalletLog
	for _, l := range m.walletLogs {
		if l.WalletID == walletID {
			copied := *l
			logs = append(logs, &copied)
		}
	}
	return logs, nil
}

// ---- UserStore ----

func (m *MemoryStore) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *u
	m.users[u.ID] = &copied
	return nil
}

func (m *MemoryStore) GetUserByChatID(ctx context.Context, chatID int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ChatID == chatID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *MemoryStore) UpdatePINHash(ctx context.Context, id uuid.UUID, pinHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.PINHash = pinHash
	return nil
}

func (m *MemoryStore) SetSafeMode(ctx context.Context, id uuid.UUID, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.SafeMode = enabled
	return nil
}

// ---- TransactionStore ----

func (m *MemoryStore) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *tx
	m.transactions[tx.ID] = &copied
	return nil
}

func (m *MemoryStore) GetTransaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *tx
	return &copied, nil
}

func (m *MemoryStore) ListTransactions(ctx context.Context, filter TransactionFilter) ([]*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var transactions []*models.Transaction
	for _, tx := range m.transactions {
		if tx.UserID != filter.UserID {
			continue
		}
		if filter.From != nil && tx.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && tx.CreatedAt.After(*filter.To) {
			continue
		}
		if filter.Category != nil && tx.Category != *filter.Category {
			continue
		}
		copied := *tx
		transactions = append(transactions, &copied)
	}
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].CreatedAt.After(transactions[j].CreatedAt)
	})
	if filter.Limit > 0 && len(transactions) > filter.Limit {
		transactions = transactions[:filter.Limit]
	}
	return transactions, nil
}

func (m *MemoryStore) UpdateTransactionCategory(ctx context.Context, id uuid.UUID, category models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok {
		return ErrNotFound
	}
	tx.Category = category
	return nil
}

func (m *MemoryStore) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[id]; !ok {
		return ErrNotFound
	}
	delete(m.transactions, id)
	return nil
}

// ---- SavingsStore ----

func (m *MemoryStore) CreateTarget(ctx context.Context, t *models.SavingsTarget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *t
	m.targets[t.ID] = &copied
	return nil
}

func (m *MemoryStore) GetTarget(ctx context.Context, id uuid.UUID) (*models.SavingsTarget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.targets[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *MemoryStore) ListTargetsByUser(ctx context.Context, userID uuid.UUID) ([]*models.SavingsTarget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var targets []*models.SavingsTarget
	for _, t := range m.targets {
		if t.UserID == userID {
			copied := *t
			targets = append(targets, &copied)
		}
	}
	sort.Slice(targets, func(i, j int) bool {
		return targets[i].CreatedAt.Before(targets[j].CreatedAt)
	})
	return targets, nil
}

func (m *MemoryStore) UpdateTargetProgress(ctx context.Context, id uuid.UUID, currentAmount int64, completed bool, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.targets[id]
	if !ok {
		return ErrNotFound
	}
	if t.Version != expectedVersion {
		return ErrVersionConflict
	}
	t.CurrentAmount = currentAmount
	t.Completed = completed
	t.Version++
	return nil
}
