package models

import (
	"time"

	"github.com/google/uuid"
)

type WalletType string

const (
	WalletTypeEWallet WalletType = "ewallet"
	WalletTypeBank    WalletType = "bank"
	WalletTypeCash    WalletType = "cash"
)

var walletTypeIcons = map[WalletType]string{
	WalletTypeEWallet: "📱",
	WalletTypeBank:    "🏦",
	WalletTypeCash:    "💵",
}

// Icon returns the display icon for a wallet type, used when the wallet
// itself carries no custom icon.
func (t WalletType) Icon() string {
	if icon, ok := walletTypeIcons[t]; ok {
		return icon
	}
	return "💰"
}

func (t WalletType) Valid() bool {
	switch t {
	case WalletTypeEWallet, WalletTypeBank, WalletTypeCash:
		return true
	}
	return false
}

// Wallet is a balance-holding account. The balance is stored only as
// ciphertext; Version backs the conditional update used by the balance engine.
type Wallet struct {
	ID               uuid.UUID  `db:"id"`
	UserID           uuid.UUID  `db:"user_id"`
	Name             string     `db:"name"`
	Type             WalletType `db:"type"`
	Icon             string     `db:"icon"`
	BalanceEncrypted string     `db:"balance_encrypted"`
	Version          int64      `db:"version"`
	IsDefault        bool       `db:"is_default"`
	IsActive         bool       `db:"is_active"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

type WalletLogKind string

const (
	LogKindInitial     WalletLogKind = "initial"
	LogKindTopup       WalletLogKind = "topup"
	LogKindExpense     WalletLogKind = "expense"
	LogKindTransferOut WalletLogKind = "transfer_out"
	LogKindTransferIn  WalletLogKind = "transfer_in"
)

// WalletLog is one append-only audit entry for a balance mutation.
// Entries are never updated or deleted.
type WalletLog struct {
	ID              uuid.UUID     `db:"id"`
	WalletID        uuid.UUID     `db:"wallet_id"`
	AmountEncrypted string        `db:"amount_encrypted"`
	Kind            WalletLogKind `db:"kind"`
	TransactionID   *uuid.UUID    `db:"transaction_id"`
	Note            string        `db:"note"`
	CreatedAt       time.Time     `db:"created_at"`
}
