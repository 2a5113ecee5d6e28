package main

import (
	"context"
	"flag"
	"log"

	"github.com/Ssathosi/catatanqu/internal/models"
	"github.com/Ssathosi/catatanqu/internal/repository"
	"github.com/Ssathosi/catatanqu/internal/service"
	"github.com/Ssathosi/catatanqu/pkg/auth"
	"github.com/Ssathosi/catatanqu/pkg/config"
	"github.com/Ssathosi/catatanqu/pkg/logger"
	"github.com/Ssathosi/catatanqu/pkg/postgres"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Seeds a demo user with two wallets, a handful of recorded expenses and a
// savings target, so the API has something to show after a fresh migration.
// Running it twice is harmless: the demo chat id is skipped if it already
// has an account. With -dry-run the whole flow runs against an in-memory
// store, which verifies the seed data without touching the database.
const demoChatID = 990001

func main() {
	dryRun := flag.Bool("dry-run", false, "run against an in-memory store, leave the database untouched")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()

	var (
		userRepo    repository.UserStore
		walletRepo  repository.WalletStore
		txRepo      repository.TransactionStore
		savingsRepo repository.SavingsStore
	)
	if *dryRun {
		appLogger.Info("Dry run: seeding an in-memory store")
		mem := repository.NewMemoryStore()
		userRepo, walletRepo, txRepo, savingsRepo = mem, mem, mem, mem
	} else {
		db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := postgres.RunMigrations(cfg.Database.DSN()); err != nil {
			appLogger.Fatal("Failed to run migrations", zap.Error(err))
		}

		userRepo = repository.NewUserRepository(db, appLogger)
		walletRepo = repository.NewWalletRepository(db, appLogger)
		txRepo = repository.NewTransactionRepository(db, appLogger)
		savingsRepo = repository.NewSavingsRepository(db, appLogger)
	}

	cryptoService, err := service.NewCryptoService(cfg.Crypto.Passphrase)
	if err != nil {
		appLogger.Fatal("Failed to initialize amount encryption", zap.Error(err))
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)
	walletService := service.NewWalletService(walletRepo, cryptoService, appLogger)
	transactionService := service.NewTransactionService(txRepo, walletService, cryptoService, appLogger)
	savingsService := service.NewSavingsService(savingsRepo, appLogger)

	appLogger.Info("Starting database seeding...")

	if _, err := userRepo.GetUserByChatID(ctx, demoChatID); err == nil {
		appLogger.Info("Demo user already exists, nothing to do")
		return
	}

	result, err := authService.Register(ctx, demoChatID, "1234", "demo", "Demo")
	if err != nil {
		appLogger.Fatal("Failed to register demo user", zap.Error(err))
	}
	userID := result.User.ID

	cash, err := walletService.CreateWallet(ctx, userID, "Cash", models.WalletTypeCash, "", 500000, true)
	if err != nil {
		appLogger.Fatal("Failed to create cash wallet", zap.Error(err))
	}
	bank, err := walletService.CreateWallet(ctx, userID, "BCA", models.WalletTypeBank, "", 2500000, false)
	if err != nil {
		appLogger.Fatal("Failed to create bank wallet", zap.Error(err))
	}

	expenses := []struct {
		amount      int64
		description string
		category    string
		wallet      uuid.UUID
	}{
		{25000, "nasi goreng lunch", "Food", cash.ID},
		{15000, "ojek to office", "Transport", cash.ID},
		{120000, "electricity bill", "Bills", bank.ID},
		{89000, "new t-shirt", "Shopping", bank.ID},
	}
	for _, e := range expenses {
		walletID := e.wallet
		_, err := transactionService.Record(ctx, userID, service.RecordInput{
			Amount:      e.amount,
			Description: e.description,
			Category:    e.category,
			Source:      models.SourceText,
			WalletID:    &walletID,
		})
		if err != nil {
			appLogger.Fatal("Failed to record demo expense",
				zap.String("description", e.description), zap.Error(err))
		}
	}

	target, err := savingsService.Create(ctx, userID, "Emergency fund", 5000000, 12)
	if err != nil {
		appLogger.Fatal("Failed to create savings target", zap.Error(err))
	}
	if _, err := savingsService.Contribute(ctx, userID, target.ID, 750000); err != nil {
		appLogger.Fatal("Failed to contribute to savings target", zap.Error(err))
	}

	appLogger.Info("Database seeding completed successfully!",
		zap.String("user", userID.String()),
		zap.Int64("chat_id", demoChatID),
	)
}
