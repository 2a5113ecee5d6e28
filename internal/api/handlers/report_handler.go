package handlers

import (
	"github.com/Ssathosi/catatanqu/internal/dto"
	"github.com/Ssathosi/catatanqu/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ReportHandler struct {
	reportService *service.ReportService
	logger        *zap.Logger
}

func NewReportHandler(reportService *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	from, to, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	summary, err := h.reportService.Summary(c.Context(), userID, from, to)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}
	return c.JSON(summaryResponse(summary))
}

func (h *ReportHandler) Overview(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	from, to, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	overview, err := h.reportService.Overview(c.Context(), userID, from, to)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}

	resp := dto.OverviewResponse{
		TotalBalance: overview.TotalBalance,
		Spending:     summaryResponse(overview.Spending),
		Wallets:      make([]dto.WalletResponse, 0, len(overview.Wallets)),
	}
	for _, wb := range overview.Wallets {
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

func (h *ReportHandler) Insight(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	from, to, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	insight, err := h.reportService.Insight(c.Context(), userID, from, to)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}

	return c.JSON(dto.InsightResponse{
		Summary: summaryResponse(insight.Summary),
		Advice:  insight.Advice,
	})
}

func summaryResponse(s *service.Summary) dto.SummaryResponse {
	resp := dto.SummaryResponse{
		From:         s.From.Format("2006-01-02"),
		To:           s.To.Format("2006-01-02"),
		Total:        s.Total,
		Count:        s.Count,
		DailyAverage: s.DailyAverage,
		Categories:   make([]dto.CategorySummaryResponse, 0, len(s.Categories)),
	}
	if s.TopCategory != "" {
		resp.TopCategory = string(s.TopCategory)
	}
	for _, cs := range s.Categories {
		resp.Categories = append(resp.Categories, dto.CategorySummaryResponse{
			Category: string(cs.Category),
			Icon:     cs.Icon,
			Total:    cs.Total,
			Count:    cs.Count,
			Percent:  cs.Percent,
		})
	}
	return resp
}
