package dto

type CreateWalletRequest struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	Icon           string `json:"icon"`
	InitialBalance int64  `json:"initial_balance"`
	IsDefault      bool   `json:"is_default"`
}

type TopupRequest struct {
	Amount int64 `json:"amount"`
}

type TransferRequest struct {
	FromWalletID string `json:"from_wallet_id"`
	ToWalletID   string `json:"to_wallet_id"`
	Amount       int64  `json:"amount"`
}

type WalletResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Icon      string `json:"icon"`
	Balance   int64  `json:"balance"`
	IsDefault bool   `json:"is_default"`
	CreatedAt string `json:"created_at"`
}

type WalletListResponse struct {
	Wallets []WalletResponse `json:"wallets"`
	Total   int64            `json:"total"`
}

type BalanceResponse struct {
	WalletID string `json:"wallet_id"`
	Balance  int64  `json:"balance"`
}

type TransferResponse struct {
	FromBalance int64 `json:"from_balance"`
	ToBalance   int64 `json:"to_balance"`
}

type WalletLogResponse struct {
	ID            string  `json:"id"`
	Kind          string  `json:"kind"`
	Delta         int64   `json:"delta"`
	TransactionID *string `json:"transaction_id,omitempty"`
	Note          string  `json:"note,omitempty"`
	CreatedAt     string  `json:"created_at"`
}
