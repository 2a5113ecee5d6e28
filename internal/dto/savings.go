package dto

type CreateTargetRequest struct {
	Name           string `json:"name"`
	TargetAmount   int64  `json:"target_amount"`
	DeadlineMonths int    `json:"deadline_months"`
}

type ContributeRequest struct {
	Amount int64 `json:"amount"`
}

type SavingsTargetResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	TargetAmount   int64   `json:"target_amount"`
	CurrentAmount  int64   `json:"current_amount"`
	DeadlineMonths int     `json:"deadline_months"`
	Completed      bool    `json:"completed"`
	Progress       float64 `json:"progress"`
}
