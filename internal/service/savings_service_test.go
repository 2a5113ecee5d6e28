package service

import (
	"context"
	"testing"

	"github.com/Ssathosi/catatanqu/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSavingsCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewSavingsService(repository.NewMemoryStore(), zap.NewNop())
	userID := uuid.New()

	cases := []struct {
		name   string
		target int64
		months int
	}{
		{"x", 100000, 12},
		{"Valid name", 0, 12},
		{"Valid name", -5, 12},
		{"Valid name", 100000, 0},
		{"Valid name", 100000, 121},
	}
	for _, tc := range cases {
		_, err := svc.Create(ctx, userID, tc.name, tc.target, tc.months)
		assert.ErrorIs(t, err, ErrInvalidTarget, "name=%q target=%d months=%d", tc.name, tc.target, tc.months)
	}

	target, err := svc.Create(ctx, userID, "Emergency fund", 5000000, 12)
	require.NoError(t, err)
	assert.Zero(t, target.CurrentAmount)
	assert.False(t, target.Completed)
	assert.Zero(t, target.Progress())
}

func TestSavingsContribute(t *testing.T) {
	ctx := context.Background()
	svc := NewSavingsService(repository.NewMemoryStore(), zap.NewNop())
	userID := uuid.New()

	target, err := svc.Create(ctx, userID, "Trip", 1000000, 6)
	require.NoError(t, err)

	target, err = svc.Contribute(ctx, userID, target.ID, 400000)
	require.NoError(t, err)
	assert.Equal(t, int64(400000), target.CurrentAmount)
	assert.False(t, target.Completed)
	assert.InDelta(t, 40.0, target.Progress(), 0.001)

	target, err = svc.Contribute(ctx, userID, target.ID, 600000)
	require.NoError(t, err)
	assert.True(t, target.Completed)
	assert.Equal(t, 100.0, target.Progress())

	// Completed stays latched even as contributions continue past the goal.
	target, err = svc.Contribute(ctx, userID, target.ID, 50000)
	require.NoError(t, err)
	assert.True(t, target.Completed)
	assert.Equal(t, int64(1050000), target.CurrentAmount)
	assert.Equal(t, 100.0, target.Progress())
}

func TestSavingsContributeValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewSavingsService(repository.NewMemoryStore(), zap.NewNop())
	userID := uuid.New()

	target, err := svc.Create(ctx, userID, "Trip", 1000000, 6)
	require.NoError(t, err)

	_, err = svc.Contribute(ctx, userID, target.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Contribute(ctx, userID, uuid.New(), 1000)
	assert.ErrorIs(t, err, ErrTargetNotFound)

	_, err = svc.Contribute(ctx, uuid.New(), target.ID, 1000)
	assert.ErrorIs(t, err, ErrTargetNotOwned)
}

func TestSavingsList(t *testing.T) {
	ctx := context.Background()
	svc := NewSavingsService(repository.NewMemoryStore(), zap.NewNop())
	userID := uuid.New()

	_, err := svc.Create(ctx, userID, "Trip", 1000000, 6)
	require.NoError(t, err)
	_, err = svc.Create(ctx, uuid.New(), "Someone else's", 500000, 3)
	require.NoError(t, err)

	targets, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "Trip", targets[0].Name)
}
