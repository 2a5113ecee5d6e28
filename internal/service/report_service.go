package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Ssathosi/catatanqu/internal/models"
	"github.com/Ssathosi/catatanqu/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// insightGenerator produces advice text from a rendered summary. Satisfied
// by ParserService; nil disables the advice section.
type insightGenerator interface {
	GenerateInsight(ctx context.Context, summary string) (string, error)
}

// ReportService is a read-only consumer: it decrypts and summarizes
// transactions over date ranges and never mutates anything.
type ReportService struct {
	transactions *TransactionService
	wallets      *WalletService
	insights     insightGenerator
	logger       *zap.Logger
}

func NewReportService(transactions *TransactionService, wallets *WalletService, insights insightGenerator, logger *zap.Logger) *ReportService {
	return &ReportService{
		transactions: transactions,
		wallets:      wallets,
		insights:     insights,
		logger:       logger,
	}
}

type CategorySummary struct {
	Category models.Category
	Icon     string
	Total    int64
	Count    int
	Percent  float64
}

type Summary struct {
	From         time.Time
	To           time.Time
	Total        int64
	Count        int
	Categories   []CategorySummary
	TopCategory  models.Category
	DailyAverage int64
}

type Overview struct {
	Wallets      []WalletBalance
	TotalBalance int64
	Spending     *Summary
}

type Insight struct {
	Summary *Summary
	Advice  string
}

// Summary aggregates a user's spending between from and to inclusive.
func (s *ReportService) Summary(ctx context.Context, userID uuid.UUID, from, to time.Time) (*Summary, error) {
	views, err := s.transactions.List(ctx, repository.TransactionFilter{
		UserID: userID,
		From:   &from,
		To:     &to,
	})
	if err != nil {
		return nil, err
	}

	totals := make(map[models.Category]*CategorySummary)
	summary := &Summary{From: from, To: to}
	for _, v := range views {
		summary.Total += v.Amount
		summary.Count++

		cs, ok := totals[v.Transaction.Category]
		if !ok {
			cs = &CategorySummary{Category: v.Transaction.Category, Icon: v.Transaction.Category.Icon()}
			totals[v.Transaction.Category] = cs
		}
		cs.Total += v.Amount
		cs.Count++
	}

	// Stable category order, largest spend first within the fixed set.
	for _, category := range models.Categories() {
		cs, ok := totals[category]
		if !ok {
			continue
		}
		if summary.Total > 0 {
			cs.Percent = float64(cs.Total) / float64(summary.Total) * 100
		}
		summary.Categories = append(summary.Categories, *cs)
	}
	for i := range summary.Categories {
		for j := i + 1; j < len(summary.Categories); j++ {
			if summary.Categories[j].Total > summary.Categories[i].Total {
				summary.Categories[i], summary.Categories[j] = summary.Categories[j], summary.Categories[i]
			}
		}
	}
	if len(summary.Categories) > 0 {
		summary.TopCategory = summary.Categories[0].Category
	}

	days := int64(to.Sub(from).Hours()/24) + 1
	if days > 0 {
		summary.DailyAverage = summary.Total / days
	}

	return summary, nil
}

// Overview fetches balances and the spending summary concurrently.
func (s *ReportService) Overview(ctx context.Context, userID uuid.UUID, from, to time.Time) (*Overview, error) {
	overview := &Overview{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		wallets, total, err := s.wallets.ListWallets(gctx, userID)
		if err != nil {
			return err
		}
		overview.Wallets = wallets
		overview.TotalBalance = total
		return nil
	})
	g.Go(func() error {
		summary, err := s.Summary(gctx, userID, from, to)
		if err != nil {
			return err
		}
		overview.Spending = summary
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return overview, nil
}

// Insight augments the numeric summary with model-generated advice. Advice
// is best-effort: an LLM failure degrades to the summary alone.
func (s *ReportService) Insight(ctx context.Context, userID uuid.UUID, from, to time.Time) (*Insight, error) {
	summary, err := s.Summary(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	insight := &Insight{Summary: summary}
	if s.insights == nil || summary.Count == 0 {
		return insight, nil
	}

	advice, err := s.insights.GenerateInsight(ctx, renderSummary(summary))
	if err != nil {
		s.logger.Warn("Insight generation failed, returning summary only", zap.Error(err))
		return insight, nil
	}
	insight.Advice = advice
	return insight, nil
}

func renderSummary(s *Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Period: %s to %s\n", s.From.Format("2006-01-02"), s.To.Format("2006-01-02"))
	fmt.Fprintf(&b, "Total spent: %d across %d transactions (daily average %d)\n", s.Total, s.Count, s.DailyAverage)
	for _, cs := range s.Categories {
		fmt.Fprintf(&b, "- %s: %d (%.0f%%, %d transactions)\n", cs.Category, cs.Total, cs.Percent, cs.Count)
	}
	return b.String()
}
