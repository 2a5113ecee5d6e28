package dto

type CategorySummaryResponse struct {
	Category string  `json:"category"`
	Icon     string  `json:"icon"`
	Total    int64   `json:"total"`
	Count    int     `json:"count"`
	Percent  float64 `json:"percent"`
}

type SummaryResponse struct {
	From         string                    `json:"from"`
	To           string                    `json:"to"`
	Total        int64                     `json:"total"`
	Count        int                       `json:"count"`
	Categories   []CategorySummaryResponse `json:"categories"`
	TopCategory  string                    `json:"top_category,omitempty"`
	DailyAverage int64                     `json:"daily_average"`
}

type OverviewResponse struct {
	Wallets      []WalletResponse `json:"wallets"`
	TotalBalance int64            `json:"total_balance"`
	Spending     SummaryResponse  `json:"spending"`
}

type InsightResponse struct {
	Summary SummaryResponse `json:"summary"`
	Advice  string          `json:"advice,omitempty"`
}
