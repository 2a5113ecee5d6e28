package handlers

import (
	"github.com/Ssathosi/catatanqu/internal/dto"
	"github.com/Ssathosi/catatanqu/internal/models"
	"github.com/Ssathosi/catatanqu/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WalletHandler struct {
	walletService *service.WalletService
	logger        *zap.Logger
}

func NewWalletHandler(walletService *service.WalletService, logger *zap.Logger) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		logger:        logger,
	}
}

func (h *WalletHandler) Create(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	var req dto.CreateWalletRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	wallet, err := h.walletService.CreateWallet(
		c.Context(), userID, req.Name, models.WalletType(req.Type), req.Icon, req.InitialBalance, req.IsDefault,
	)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.WalletResponse{
		ID:        wallet.ID.String(),
		Name:      wallet.Name,
		Type:      string(wallet.Type),
		Icon:      wallet.Icon,
		Balance:   req.InitialBalance,
		IsDefault: wallet.IsDefault,
		CreatedAt: wallet.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

func (h *WalletHandler) List(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	balances, total, err := h.walletService.ListWallets(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}

	resp := dto.WalletListResponse{Total: total, Wallets: make([]dto.WalletResponse, 0, len(balances))}
	for _, wb := range balances {
		resp.Wallets = append(resp.Wallets, dto.WalletResponse{
			ID:        wb.Wallet.ID.String(),
			Name:      wb.Wallet.Name,
			Type:      string(wb.Wallet.Type),
			Icon:      wb.Wallet.Icon,
			Balance:   wb.Balance,
			IsDefault: wb.Wallet.IsDefault,
			CreatedAt: wb.Wallet.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return c.JSON(resp)
}

func (h *WalletHandler) Topup(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	walletID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid wallet id"})
	}

	var req dto.TopupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if _, err := h.walletService.GetOwnedWallet(c.Context(), userID, walletID); err != nil {
		return respondServiceError(c, h.logger, err)
	}

	balance, err := h.walletService.ApplyTopup(c.Context(), walletID, req.Amount)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}

	return c.JSON(dto.BalanceResponse{WalletID: walletID.String(), Balance: balance})
}

func (h *WalletHandler) Transfer(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	var req dto.TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	fromID, err := uuid.Parse(req.FromWalletID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid from_wallet_id"})
	}
	toID, err := uuid.Parse(req.ToWalletID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid to_wallet_id"})
	}

	// Both endpoints must belong to the caller.
	if _, err := h.walletService.GetOwnedWallet(c.Context(), userID, fromID); err != nil {
		return respondServiceError(c, h.logger, err)
	}
	if _, err := h.walletService.GetOwnedWallet(c.Context(), userID, toID); err != nil {
		return respondServiceError(c, h.logger, err)
	}

	fromBalance, toBalance, err := h.walletService.ApplyTransfer(c.Context(), fromID, toID, req.Amount)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}

	return c.JSON(dto.TransferResponse{FromBalance: fromBalance, ToBalance: toBalance})
}

func (h *WalletHandler) Delete(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	walletID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid wallet id"})
	}

	if err := h.walletService.DeleteWallet(c.Context(), userID, walletID); err != nil {
		return respondServiceError(c, h.logger, err)
	}

	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *WalletHandler) Logs(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	walletID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid wallet id"})
	}

	entries, err := h.walletService.Logs(c.Context(), userID, walletID)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}

	resp := make([]dto.WalletLogResponse, 0, len(entries))
	for _, e := range entries {
		item := dto.WalletLogResponse{
			ID:        e.Log.ID.String(),
			Kind:      string(e.Log.Kind),
			Delta:     e.Delta,
			Note:      e.Log.Note,
			CreatedAt: e.Log.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if e.Log.TransactionID != nil {
			txID := e.Log.TransactionID.String()
			item.TransactionID = &txID
		}
		resp = append(resp, item)
	}
	return c.JSON(resp)
}
