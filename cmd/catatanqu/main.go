package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ssathosi/catatanqu/internal/api"
	"github.com/Ssathosi/catatanqu/internal/api/handlers"
	"github.com/Ssathosi/catatanqu/internal/repository"
	"github.com/Ssathosi/catatanqu/internal/service"
	"github.com/Ssathosi/catatanqu/pkg/auth"
	"github.com/Ssathosi/catatanqu/pkg/config"
	"github.com/Ssathosi/catatanqu/pkg/logger"
	"github.com/Ssathosi/catatanqu/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting catatanqu service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(cfg.Database.DSN()); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	walletRepo := repository.NewWalletRepository(db, appLogger)
	txRepo := repository.NewTransactionRepository(db, appLogger)
	savingsRepo := repository.NewSavingsRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)

	// Initialize services
	cryptoService, err := service.NewCryptoService(cfg.Crypto.Passphrase)
	if err != nil {
		appLogger.Fatal("Failed to initialize amount encryption", zap.Error(err))
	}

	authService := service.NewAuthService(userRepo, jwtManager, appLogger)
	walletService := service.NewWalletService(walletRepo, cryptoService, appLogger)
	transactionService := service.NewTransactionService(txRepo, walletService, cryptoService, appLogger)
	savingsService := service.NewSavingsService(savingsRepo, appLogger)

	parserService, err := service.NewParserService(&cfg.GigaChat, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize parser service", zap.Error(err))
	}
	defer parserService.Close()

	reportService := service.NewReportService(transactionService, walletService, parserService, appLogger)
	pending := service.NewPendingStore(10 * time.Minute)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	walletHandler := handlers.NewWalletHandler(walletService, appLogger)
	transactionHandler := handlers.NewTransactionHandler(transactionService, parserService, pending, appLogger)
	savingsHandler := handlers.NewSavingsHandler(savingsService, appLogger)
	reportHandler := handlers.NewReportHandler(reportService, appLogger)

	// Setup router
	app := api.SetupRouter(authHandler, walletHandler, transactionHandler, savingsHandler, reportHandler, jwtManager, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
