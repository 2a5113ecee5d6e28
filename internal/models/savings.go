package models

import (
	"time"

	"github.com/google/uuid"
)

// SavingsTarget is a goal-oriented accumulator. Amounts are plaintext minor
// units, unlike wallet balances. CurrentAmount only ever grows and Completed
// latches true once the target is reached.
type SavingsTarget struct {
	ID             uuid.UUID `db:"id"`
	UserID         uuid.UUID `db:"user_id"`
	Name           string    `db:"name"`
	TargetAmount   int64     `db:"target_amount"`
	CurrentAmount  int64     `db:"current_amount"`
	DeadlineMonths int       `db:"deadline_months"`
	Completed      bool      `db:"completed"`
	Version        int64     `db:"version"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Progress returns completion percent for display, guarding a zero target.
func (t *SavingsTarget) Progress() float64 {
	if t.TargetAmount <= 0 {
		return 0
	}
	p := float64(t.CurrentAmount) / float64(t.TargetAmount) * 100
	if p > 100 {
		p = 100
	}
	return p
}
