package handlers

import (
	"github.com/Ssathosi/catatanqu/internal/dto"
	"github.com/Ssathosi/catatanqu/internal/models"
	"github.com/Ssathosi/catatanqu/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SavingsHandler struct {
	savingsService *service.SavingsService
	logger         *zap.Logger
}

func NewSavingsHandler(savingsService *service.SavingsService, logger *zap.Logger) *SavingsHandler {
	return &SavingsHandler{
		savingsService: savingsService,
		logger:         logger,
	}
}

func (h *SavingsHandler) Create(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	var req dto.CreateTargetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	target, err := h.savingsService.Create(c.Context(), userID, req.Name, req.TargetAmount, req.DeadlineMonths)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(savingsTargetResponse(target))
}

func (h *SavingsHandler) List(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	targets, err := h.savingsService.List(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}

	resp := make([]dto.SavingsTargetResponse, 0, len(targets))
	for _, target := range targets {
		resp = append(resp, savingsTargetResponse(target))
	}
	return c.JSON(resp)
}

func (h *SavingsHandler) Contribute(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid target id"})
	}

	var req dto.ContributeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	target, err := h.savingsService.Contribute(c.Context(), userID, targetID, req.Amount)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}

	return c.JSON(savingsTargetResponse(target))
}

func savingsTargetResponse(target *models.SavingsTarget) dto.SavingsTargetResponse {
	return dto.SavingsTargetResponse{
		ID:             target.ID.String(),
		Name:           target.Name,
		TargetAmount:   target.TargetAmount,
		CurrentAmount:  target.CurrentAmount,
		DeadlineMonths: target.DeadlineMonths,
		Completed:      target.Completed,
		Progress:       target.Progress(),
	}
}
