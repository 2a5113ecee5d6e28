package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ssathosi/catatanqu/internal/api/handlers"
	"github.com/Ssathosi/catatanqu/internal/dto"
	"github.com/Ssathosi/catatanqu/internal/repository"
	"github.com/Ssathosi/catatanqu/internal/service"
	"github.com/Ssathosi/catatanqu/pkg/auth"
	"github.com/Ssathosi/catatanqu/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	store := repository.NewMemoryStore()

	crypto, err := service.NewCryptoService("test-passphrase")
	require.NoError(t, err)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	authService := service.NewAuthService(store, jwtManager, logger)
	walletService := service.NewWalletService(store, crypto, logger)
	transactionService := service.NewTransactionService(store, walletService, crypto, logger)
	savingsService := service.NewSavingsService(store, logger)
	parserService, err := service.NewParserService(&config.GigaChatConfig{}, logger)
	require.NoError(t, err)
	reportService := service.NewReportService(transactionService, walletService, nil, logger)
	pending := service.NewPendingStore(time.Minute)

	return SetupRouter(
		handlers.NewAuthHandler(authService, logger),
		handlers.NewWalletHandler(walletService, logger),
		handlers.NewTransactionHandler(transactionService, parserService, pending, logger),
		handlers.NewSavingsHandler(savingsService, logger),
		handlers.NewReportHandler(reportService, logger),
		jwtManager,
		logger,
	)
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func registerUser(t *testing.T, app *fiber.App, chatID int64) string {
	t.Helper()
	var resp dto.AuthResponse
	status := doJSON(t, app, http.MethodPost, "/auth/register", "", dto.RegisterRequest{
		ChatID:    chatID,
		PIN:       "1234",
		Username:  "budi",
		FirstName: "Budi",
	}, &resp)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRouterAuthFlow(t *testing.T) {
	app := newTestApp(t)

	var registered dto.AuthResponse
	status := doJSON(t, app, http.MethodPost, "/auth/register", "", dto.RegisterRequest{
		ChatID: 111, PIN: "1234", Username: "budi", FirstName: "Budi",
	}, &registered)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Bearer", registered.TokenType)

	// Duplicate registration conflicts.
	status = doJSON(t, app, http.MethodPost, "/auth/register", "", dto.RegisterRequest{
		ChatID: 111, PIN: "1234",
	}, nil)
	assert.Equal(t, http.StatusConflict, status)

	var verified dto.AuthResponse
	status = doJSON(t, app, http.MethodPost, "/auth/verify", "", dto.VerifyPINRequest{
		ChatID: 111, PIN: "1234",
	}, &verified)
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, verified.Token)

	status = doJSON(t, app, http.MethodPost, "/auth/verify", "", dto.VerifyPINRequest{
		ChatID: 111, PIN: "9999",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRouterRequiresToken(t *testing.T) {
	app := newTestApp(t)

	status := doJSON(t, app, http.MethodGet, "/api/v1/wallets", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status = doJSON(t, app, http.MethodGet, "/api/v1/wallets", "not-a-token", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRouterWalletFlow(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app, 222)

	var cash dto.WalletResponse
	status := doJSON(t, app, http.MethodPost, "/api/v1/wallets", token, dto.CreateWalletRequest{
		Name: "Cash", Type: "cash", InitialBalance: 100000, IsDefault: true,
	}, &cash)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, int64(100000), cash.Balance)

	var bank dto.WalletResponse
	status = doJSON(t, app, http.MethodPost, "/api/v1/wallets", token, dto.CreateWalletRequest{
		Name: "BCA", Type: "bank", InitialBalance: 0,
	}, &bank)
	require.Equal(t, http.StatusCreated, status)

	var balance dto.BalanceResponse
	status = doJSON(t, app, http.MethodPost, "/api/v1/wallets/"+cash.ID+"/topup", token, dto.TopupRequest{Amount: 50000}, &balance)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(150000), balance.Balance)

	var transfer dto.TransferResponse
	status = doJSON(t, app, http.MethodPost, "/api/v1/wallets/transfer", token, dto.TransferRequest{
		FromWalletID: cash.ID, ToWalletID: bank.ID, Amount: 60000,
	}, &transfer)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(90000), transfer.FromBalance)
	assert.Equal(t, int64(60000), transfer.ToBalance)

	// Overdraw rejects with the amounts in play.
	status = doJSON(t, app, http.MethodPost, "/api/v1/wallets/transfer", token, dto.TransferRequest{
		FromWalletID: cash.ID, ToWalletID: bank.ID, Amount: 9000000,
	}, nil)
	assert.Equal(t, http.StatusConflict, status)

	var list dto.WalletListResponse
	status = doJSON(t, app, http.MethodGet, "/api/v1/wallets", token, nil, &list)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list.Wallets, 2)
	assert.Equal(t, int64(150000), list.Total)

	// Another user cannot touch these wallets.
	otherToken := registerUser(t, app, 333)
	status = doJSON(t, app, http.MethodPost, "/api/v1/wallets/"+cash.ID+"/topup", otherToken, dto.TopupRequest{Amount: 1000}, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRouterTransactionFlow(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app, 444)

	var wallet dto.WalletResponse
	status := doJSON(t, app, http.MethodPost, "/api/v1/wallets", token, dto.CreateWalletRequest{
		Name: "Cash", Type: "cash", InitialBalance: 100000,
	}, &wallet)
	require.Equal(t, http.StatusCreated, status)

	// Parse returns a preview plus a one-time confirmation token.
	var parsed dto.ParseResponse
	status = doJSON(t, app, http.MethodPost, "/api/v1/transactions/parse", token, dto.ParseRequest{
		Text: "nasi goreng lunch 25rb", WalletID: &wallet.ID,
	}, &parsed)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(25000), parsed.Amount)
	assert.Equal(t, "Food", parsed.Category)
	require.NotEmpty(t, parsed.Token)

	var recorded dto.TransactionResponse
	status = doJSON(t, app, http.MethodPost, "/api/v1/transactions/confirm", token, dto.ConfirmRequest{Token: parsed.Token}, &recorded)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, int64(25000), recorded.Amount)
	require.NotNil(t, recorded.WalletBalance)
	assert.Equal(t, int64(75000), *recorded.WalletBalance)

	// Confirming the same token again must not double-debit.
	status = doJSON(t, app, http.MethodPost, "/api/v1/transactions/confirm", token, dto.ConfirmRequest{Token: parsed.Token}, nil)
	assert.Equal(t, http.StatusNotFound, status)

	var transactions []dto.TransactionResponse
	status = doJSON(t, app, http.MethodGet, "/api/v1/transactions", token, nil, &transactions)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, transactions, 1)

	status = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/transactions/%s/category", transactions[0].ID), token, dto.UpdateCategoryRequest{Category: "Transport"}, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestRouterReportFlow(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app, 555)

	for _, req := range []dto.RecordTransactionRequest{
		{Amount: 60000, Description: "groceries", Category: "Food"},
		{Amount: 40000, Description: "taxi", Category: "Transport"},
	} {
		status := doJSON(t, app, http.MethodPost, "/api/v1/transactions", token, req, nil)
		require.Equal(t, http.StatusCreated, status)
	}

	var summary dto.SummaryResponse
	status := doJSON(t, app, http.MethodGet, "/api/v1/reports/summary", token, nil, &summary)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(100000), summary.Total)
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, "Food", summary.TopCategory)

	var overview dto.OverviewResponse
	status = doJSON(t, app, http.MethodGet, "/api/v1/reports/overview", token, nil, &overview)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(100000), overview.Spending.Total)
}
