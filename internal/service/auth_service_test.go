package service

import (
	"context"
	"testing"
	"time"

	"github.com/Ssathosi/catatanqu/internal/repository"
	"github.com/Ssathosi/catatanqu/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService() *AuthService {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(repository.NewMemoryStore(), jwtManager, zap.NewNop())
}

func TestRegisterAndVerifyPIN(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService()

	result, err := svc.Register(ctx, 12345, "1234", "budi", "Budi")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, int64(3600), result.ExpiresIn)
	assert.NotEqual(t, "1234", result.User.PINHash)

	verified, err := svc.VerifyPIN(ctx, 12345, "1234")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, verified.User.ID)

	_, err = svc.VerifyPIN(ctx, 12345, "9999")
	assert.ErrorIs(t, err, ErrInvalidPIN)

	_, err = svc.VerifyPIN(ctx, 99999, "1234")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService()

	for _, pin := range []string{"", "123", "1234567", "12ab", "abcd"} {
		_, err := svc.Register(ctx, 12345, pin, "budi", "Budi")
		assert.ErrorIs(t, err, ErrInvalidPIN, "pin %q", pin)
	}

	_, err := svc.Register(ctx, 12345, "1234", "budi", "Budi")
	require.NoError(t, err)
	_, err = svc.Register(ctx, 12345, "5678", "budi", "Budi")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestChangePIN(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService()

	result, err := svc.Register(ctx, 12345, "1234", "budi", "Budi")
	require.NoError(t, err)
	userID := result.User.ID

	err = svc.ChangePIN(ctx, userID, "0000", "5678")
	assert.ErrorIs(t, err, ErrInvalidPIN)

	require.NoError(t, svc.ChangePIN(ctx, userID, "1234", "5678"))

	_, err = svc.VerifyPIN(ctx, 12345, "1234")
	assert.ErrorIs(t, err, ErrInvalidPIN)
	_, err = svc.VerifyPIN(ctx, 12345, "5678")
	assert.NoError(t, err)
}
