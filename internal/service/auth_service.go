package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/Ssathosi/catatanqu/internal/models"
	"github.com/Ssathosi/catatanqu/internal/repository"
	"github.com/Ssathosi/catatanqu/pkg/auth"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
	ErrInvalidPIN   = errors.New("invalid PIN")
)

type AuthService struct {
	users      repository.UserStore
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

func NewAuthService(users repository.UserStore, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

type AuthResult struct {
	Token     string
	ExpiresIn int64
	User      *models.User
}

// Register creates a user keyed by their chat id and returns a session
// token.
func (s *AuthService) Register(ctx context.Context, chatID int64, pin, username, firstName string) (*AuthResult, error) {
	if err := validatePIN(pin); err != nil {
		return nil, err
	}

	existing, err := s.users.GetUserByChatID(ctx, chatID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	pinHash, err := auth.HashPIN(pin)
	if err != nil {
		return nil, fmt.Errorf("hash pin: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:        uuid.New(),
		ChatID:    chatID,
		Username:  username,
		FirstName: firstName,
		PINHash:   pinHash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issueToken(user)
}

// VerifyPIN checks the PIN and opens a session. Verification fails closed:
// any hash problem reads as a wrong PIN.
func (s *AuthService) VerifyPIN(ctx context.Context, chatID int64, pin string) (*AuthResult, error) {
	user, err := s.users.GetUserByChatID(ctx, chatID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !auth.CheckPIN(pin, user.PINHash) {
		return nil, ErrInvalidPIN
	}

	return s.issueToken(user)
}

func (s *AuthService) ChangePIN(ctx context.Context, userID uuid.UUID, oldPIN, newPIN string) error {
	if err := validatePIN(newPIN); err != nil {
		return err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	if !auth.CheckPIN(oldPIN, user.PINHash) {
		return ErrInvalidPIN
	}

	pinHash, err := auth.HashPIN(newPIN)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	return s.users.UpdatePINHash(ctx, userID, pinHash)
}

func (s *AuthService) SetSafeMode(ctx context.Context, userID uuid.UUID, enabled bool) error {
	err := s.users.SetSafeMode(ctx, userID, enabled)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (s *AuthService) issueToken(user *models.User) (*AuthResult, error) {
	token, err := s.jwtManager.GenerateToken(user.ID.String(), user.ChatID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResult{
		Token:     token,
		ExpiresIn: int64(s.jwtManager.GetTokenDuration().Seconds()),
		User:      user,
	}, nil
}

func validatePIN(pin string) error {
	if len(pin) < 4 || len(pin) > 6 {
		return fmt.Errorf("%w: must be 4-6 digits", ErrInvalidPIN)
	}
	for _, r := range pin {
		if !unicode.IsDigit(r) {
			return fmt.Errorf("%w: must be 4-6 digits", ErrInvalidPIN)
		}
	}
	return nil
}
