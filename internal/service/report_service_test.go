package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Ssathosi/catatanqu/internal/models"
	"github.com/Ssathosi/catatanqu/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newReportService(t *testing.T, store *repository.MemoryStore, insights insightGenerator) (*ReportService, *TransactionService, *WalletService) {
	t.Helper()
	transactions, wallets := newTransactionService(t, store)
	return NewReportService(transactions, wallets, insights, zap.NewNop()), transactions, wallets
}

func seedSpending(t *testing.T, transactions *TransactionService, userID uuid.UUID) {
	t.Helper()
	inputs := []RecordInput{
		{Amount: 60000, Description: "groceries", Category: "Food"},
		{Amount: 20000, Description: "lunch", Category: "Food"},
		{Amount: 20000, Description: "bus pass", Category: "Transport"},
	}
	for _, in := range inputs {
		_, err := transactions.Record(context.Background(), userID, in)
		require.NoError(t, err)
	}
}

func TestReportSummary(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc, transactions, _ := newReportService(t, store, nil)
	userID := uuid.New()
	seedSpending(t, transactions, userID)

	from := time.Now().Add(-time.Hour)
	to := time.Now().Add(time.Hour)
	summary, err := svc.Summary(ctx, userID, from, to)
	require.NoError(t, err)

	assert.Equal(t, int64(100000), summary.Total)
	assert.Equal(t, 3, summary.Count)
	require.Len(t, summary.Categories, 2)
	assert.Equal(t, models.CategoryFood, summary.Categories[0].Category)
	assert.Equal(t, int64(80000), summary.Categories[0].Total)
	assert.InDelta(t, 80.0, summary.Categories[0].Percent, 0.001)
	assert.Equal(t, models.CategoryTransport, summary.Categories[1].Category)
	assert.Equal(t, models.CategoryFood, summary.TopCategory)
	assert.Equal(t, int64(100000), summary.DailyAverage)
}

func TestReportSummaryEmptyPeriod(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc, _, _ := newReportService(t, store, nil)

	summary, err := svc.Summary(ctx, uuid.New(), time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	assert.Zero(t, summary.Total)
	assert.Zero(t, summary.Count)
	assert.Empty(t, summary.Categories)
	assert.Empty(t, summary.TopCategory)
}

func TestReportOverview(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc, transactions, wallets := newReportService(t, store, nil)
	userID := uuid.New()

	_, err := wallets.CreateWallet(ctx, userID, "Cash", models.WalletTypeCash, "", 500000, true)
	require.NoError(t, err)
	_, err = wallets.CreateWallet(ctx, userID, "BCA", models.WalletTypeBank, "", 1500000, false)
	require.NoError(t, err)
	seedSpending(t, transactions, userID)

	overview, err := svc.Overview(ctx, userID, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, overview.Wallets, 2)
	assert.Equal(t, int64(2000000), overview.TotalBalance)
	require.NotNil(t, overview.Spending)
	assert.Equal(t, int64(100000), overview.Spending.Total)
}

type stubInsights struct {
	advice string
	err    error
	prompt string
}

func (s *stubInsights) GenerateInsight(ctx context.Context, summary string) (string, error) {
	s.prompt = summary
	return s.advice, s.err
}

func TestReportInsight(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	stub := &stubInsights{advice: "Cook at home more often."}
	svc, transactions, _ := newReportService(t, store, stub)
	userID := uuid.New()
	seedSpending(t, transactions, userID)

	insight, err := svc.Insight(ctx, userID, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "Cook at home more often.", insight.Advice)
	assert.Contains(t, stub.prompt, "Food")
}

func TestReportInsightDegradesOnLLMFailure(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	stub := &stubInsights{err: errors.New("llm down")}
	svc, transactions, _ := newReportService(t, store, stub)
	userID := uuid.New()
	seedSpending(t, transactions, userID)

	insight, err := svc.Insight(ctx, userID, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, insight.Advice)
	require.NotNil(t, insight.Summary)
	assert.Equal(t, int64(100000), insight.Summary.Total)
}

func TestReportInsightSkipsLLMWhenNoSpending(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	stub := &stubInsights{advice: "unused"}
	svc, _, _ := newReportService(t, store, stub)

	insight, err := svc.Insight(ctx, uuid.New(), time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	assert.Empty(t, insight.Advice)
	assert.Empty(t, stub.prompt)
}
