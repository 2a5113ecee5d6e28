package handlers

import (
	"errors"

	"github.com/Ssathosi/catatanqu/internal/dto"
	"github.com/Ssathosi/catatanqu/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := h.authService.Register(c.Context(), req.ChatID, req.PIN, req.Username, req.FirstName)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "User already exists",
			})
		}
		if errors.Is(err, service.ErrInvalidPIN) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "PIN must be 4-6 digits",
			})
		}
		h.logger.Error("Registration failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Registration failed",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(authResponse(result))
}

func (h *AuthHandler) VerifyPIN(c *fiber.Ctx) error {
	var req dto.VerifyPINRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := h.authService.VerifyPIN(c.Context(), req.ChatID, req.PIN)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPIN) || errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Wrong PIN",
			})
		}
		h.logger.Error("PIN verification failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Verification failed",
		})
	}

	return c.JSON(authResponse(result))
}

func (h *AuthHandler) ChangePIN(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	var req dto.ChangePINRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.authService.ChangePIN(c.Context(), userID, req.OldPIN, req.NewPIN); err != nil {
		if errors.Is(err, service.ErrInvalidPIN) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Wrong or invalid PIN",
			})
		}
		h.logger.Error("PIN change failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "PIN change failed",
		})
	}

	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *AuthHandler) SetSafeMode(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	var req dto.SafeModeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.authService.SetSafeMode(c.Context(), userID, req.Enabled); err != nil {
		h.logger.Error("Safe mode update failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Update failed",
		})
	}

	return c.JSON(fiber.Map{"status": "ok"})
}

func authResponse(result *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		Token:     result.Token,
		TokenType: "Bearer",
		ExpiresIn: result.ExpiresIn,
		User: dto.UserResponse{
			ID:        result.User.ID.String(),
			ChatID:    result.User.ChatID,
			Username:  result.User.Username,
			FirstName: result.User.FirstName,
		},
	}
}
