package dto

type ParseRequest struct {
	Text     string  `json:"text"`
	WalletID *string `json:"wallet_id,omitempty"`
}

type ParseResponse struct {
	Token       string  `json:"token"`
	Amount      int64   `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Icon        string  `json:"icon"`
	Confidence  float64 `json:"confidence"`
}

type ConfirmRequest struct {
	Token string `json:"token"`
}

type RecordTransactionRequest struct {
	Amount      int64   `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Source      string  `json:"source"`
	WalletID    *string `json:"wallet_id,omitempty"`
	StoreName   string  `json:"store_name,omitempty"`
	ReceiptDate string  `json:"receipt_date,omitempty"`
}

type UpdateCategoryRequest struct {
	Category string `json:"category"`
}

type TransactionResponse struct {
	ID            string  `json:"id"`
	Amount        int64   `json:"amount"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Icon          string  `json:"icon"`
	Source        string  `json:"source"`
	WalletID      *string `json:"wallet_id,omitempty"`
	StoreName     string  `json:"store_name,omitempty"`
	CreatedAt     string  `json:"created_at"`
	WalletBalance *int64  `json:"wallet_balance,omitempty"`
}
