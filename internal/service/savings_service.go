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
	ErrTargetNotFound = errors.New("savings target not found")
	ErrTargetNotOwned = errors.New("savings target does not belong to user")
	ErrInvalidTarget  = errors.New("invalid savings target")
)

const (
	minTargetNameLen   = 2
	maxTargetNameLen   = 100
	maxDeadlineMonths  = 120
	maxSavingsAttempts = 3
)

// SavingsService tracks goal-oriented accumulation. Contributions follow
// the same conditional-update discipline as wallet balances, but amounts
// are plaintext and there is no multi-record atomicity to protect.
type SavingsService struct {
	store  repository.SavingsStore
	logger *zap.Logger
}

func NewSavingsService(store repository.SavingsStore, logger *zap.Logger) *SavingsService {
	return &SavingsService{
		store:  store,
		logger: logger,
	}
}

func (s *SavingsService) Create(ctx context.Context, userID uuid.UUID, name string, targetAmount int64, deadlineMonths int) (*models.SavingsTarget, error) {
	if len(name) < minTargetNameLen || len(name) > maxTargetNameLen {
		return nil, fmt.Errorf("%w: name must be %d-%d characters", ErrInvalidTarget, minTargetNameLen, maxTargetNameLen)
	}
	if targetAmount <= 0 {
		return nil, fmt.Errorf("%w: target amount must be positive", ErrInvalidTarget)
	}
	if deadlineMonths < 1 || deadlineMonths > maxDeadlineMonths {
		return nil, fmt.Errorf("%w: deadline must be 1-%d months", ErrInvalidTarget, maxDeadlineMonths)
	}

	now := time.Now()
	target := &models.SavingsTarget{
		ID:             uuid.New(),
		UserID:         userID,
		Name:           name,
		TargetAmount:   targetAmount,
		CurrentAmount:  0,
		DeadlineMonths: deadlineMonths,
		Completed:      false,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateTarget(ctx, target); err != nil {
		return nil, fmt.Errorf("create savings target: %w", err)
	}
	return target, nil
}

// Contribute adds amount to the target. current_amount never decreases and
// completed latches true once the target is reached, staying true even as
// contributions continue.
func (s *SavingsService) Contribute(ctx context.Context, userID, targetID uuid.UUID, amount int64) (*models.SavingsTarget, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	for attempt := 0; attempt < maxSavingsAttempts; attempt++ {
		target, err := s.getOwned(ctx, userID, targetID)
		if err != nil {
			return nil, err
		}

		newAmount := target.CurrentAmount + amount
		completed := target.Completed || newAmount >= target.TargetAmount

		err = s.store.UpdateTargetProgress(ctx, targetID, newAmount, completed, target.Version)
		if errors.Is(err, repository.ErrVersionConflict) {
			s.logger.Warn("Savings contribution hit version conflict, retrying",
				zap.String("target", targetID.String()),
				zap.Int("attempt", attempt+1),
			)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("update savings target: %w", err)
		}

		target.CurrentAmount = newAmount
		target.Completed = completed
		target.Version++
		return target, nil
	}

	return nil, ErrConcurrentModification
}

func (s *SavingsService) Get(ctx context.Context, userID, targetID uuid.UUID) (*models.SavingsTarget, error) {
	return s.getOwned(ctx, userID, targetID)
}

func (s *SavingsService) List(ctx context.Context, userID uuid.UUID) ([]*models.SavingsTarget, error) {
	targets, err := s.store.ListTargetsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list savings targets: %w", err)
	}
	return targets, nil
}

func (s *SavingsService) getOwned(ctx context.Context, userID, targetID uuid.UUID) (*models.SavingsTarget, error) {
	target, err := s.store.GetTarget(ctx, targetID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTargetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get savings target: %w", err)
	}
	if target.UserID != userID {
		return nil, ErrTargetNotOwned
	}
	return target, nil
}
