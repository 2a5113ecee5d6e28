package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/Ssathosi/catatanqu/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func userIDFromCtx(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals("userID").(string)
	return uuid.Parse(raw)
}

// respondServiceError maps service errors onto HTTP responses. User-facing
// reasons (insufficient funds, stale references) stay concrete; corruption
// and infrastructure failures stay generic.
func respondServiceError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	var insufficient *service.InsufficientFundsError
	switch {
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": fmt.Sprintf("Insufficient funds in %s: requested %d, available %d",
				insufficient.WalletName, insufficient.Requested, insufficient.Available),
		})
	case errors.Is(err, service.ErrWalletNotFound),
		errors.Is(err, service.ErrWalletNotOwned),
		errors.Is(err, service.ErrTargetNotFound),
		errors.Is(err, service.ErrTargetNotOwned),
		errors.Is(err, service.ErrTransactionNotFound),
		errors.Is(err, service.ErrTransactionNotOwned):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found, please retry the flow",
		})
	case errors.Is(err, service.ErrConcurrentModification):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Please try again",
		})
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidWalletType),
		errors.Is(err, service.ErrSameWallet),
		errors.Is(err, service.ErrInvalidTarget),
		errors.Is(err, service.ErrAlreadyInitialized):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, service.ErrDecrypt):
		logger.Error("Amount decryption failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Something went wrong",
		})
	default:
		logger.Error("Request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Something went wrong",
		})
	}
}

// dateRange reads from/to query params, defaulting to the current month.
func dateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return from, to, fmt.Errorf("invalid from date: %w", err)
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return from, to, fmt.Errorf("invalid to date: %w", err)
		}
		to = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, nil
}
