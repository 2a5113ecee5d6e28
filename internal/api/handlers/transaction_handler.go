package handlers

import (
	"time"

	"github.com/Ssathosi/catatanqu/internal/dto"
	"github.com/Ssathosi/catatanqu/internal/models"
	"github.com/Ssathosi/catatanqu/internal/repository"
	"github.com/Ssathosi/catatanqu/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	transactionService *service.TransactionService
	parserService      *service.ParserService
	pending            *service.PendingStore
	logger             *zap.Logger
}

func NewTransactionHandler(
	transactionService *service.TransactionService,
	parserService *service.ParserService,
	pending *service.PendingStore,
	logger *zap.Logger,
) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		parserService:      parserService,
		pending:            pending,
		logger:             logger,
	}
}

// Parse interprets a free-text expense and stores it as a pending
// operation; the returned token confirms it later.
func (h *TransactionHandler) Parse(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	var req dto.ParseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	parsed, err := h.parserService.ParseText(c.Context(), req.Text)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Could not understand the message",
		})
	}

	var walletID *uuid.UUID
	if req.WalletID != nil {
		id, err := uuid.Parse(*req.WalletID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid wallet id"})
		}
		walletID = &id
	}

	token := h.pending.Put(service.PendingOperation{
		UserID:    userID,
		Parsed:    *parsed,
		WalletID:  walletID,
		CreatedAt: time.Now(),
	})

	category := models.NormalizeCategory(parsed.Category)
	return c.JSON(dto.ParseResponse{
		Token:       token,
		Amount:      parsed.Amount,
		Description: parsed.Description,
		Category:    string(category),
		Icon:        category.Icon(),
		Confidence:  parsed.Confidence,
	})
}

// Confirm records a previously parsed transaction. The token is single-use
// so a double-tapped confirm cannot debit twice.
func (h *TransactionHandler) Confirm(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	var req dto.ConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	op, ok := h.pending.Take(req.Token)
	if !ok || op.UserID != userID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Nothing to confirm, please retry the flow",
		})
	}

	result, err := h.transactionService.Record(c.Context(), userID, service.RecordInput{
		Amount:      op.Parsed.Amount,
		Description: op.Parsed.Description,
		Category:    op.Parsed.Category,
		Source:      models.SourceText,
		WalletID:    op.WalletID,
	})
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(transactionResponse(result.Transaction, op.Parsed.Amount, result.WalletBalance))
}

// Record stores an already-structured transaction, e.g. from a command.
func (h *TransactionHandler) Record(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	var req dto.RecordTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	input := service.RecordInput{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Source:      models.InputSource(req.Source),
		StoreName:   req.StoreName,
	}
	if req.WalletID != nil {
		id, err := uuid.Parse(*req.WalletID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid wallet id"})
		}
		input.WalletID = &id
	}
	if req.ReceiptDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ReceiptDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid receipt date"})
		}
		input.ReceiptDate = &parsed
	}

	result, err := h.transactionService.Record(c.Context(), userID, input)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(transactionResponse(result.Transaction, req.Amount, result.WalletBalance))
}

func (h *TransactionHandler) List(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	from, to, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	filter := repository.TransactionFilter{
		UserID: userID,
		From:   &from,
		To:     &to,
		Limit:  c.QueryInt("limit", 100),
	}
	if raw := c.Query("category"); raw != "" {
		category := models.NormalizeCategory(raw)
		filter.Category = &category
	}

	views, err := h.transactionService.List(c.Context(), filter)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}

	resp := make([]dto.TransactionResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, transactionResponse(v.Transaction, v.Amount, nil))
	}
	return c.JSON(resp)
}

func (h *TransactionHandler) UpdateCategory(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	txID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction id"})
	}

	var req dto.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.transactionService.UpdateCategory(c.Context(), userID, txID, req.Category); err != nil {
		return respondServiceError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	txID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction id"})
	}

	if err := h.transactionService.Delete(c.Context(), userID, txID); err != nil {
		return respondServiceError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func transactionResponse(tx *models.Transaction, amount int64, balance *int64) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:            tx.ID.String(),
		Amount:        amount,
		Description:   tx.Description,
		Category:      string(tx.Category),
		Icon:          tx.Category.Icon(),
		Source:        string(tx.Source),
		StoreName:     tx.StoreName,
		CreatedAt:     tx.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		WalletBalance: balance,
	}
	if tx.WalletID != nil {
		id := tx.WalletID.String()
		resp.WalletID = &id
	}
	return resp
}
