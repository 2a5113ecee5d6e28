package api

import (
	"github.com/Ssathosi/catatanqu/internal/api/handlers"
	"github.com/Ssathosi/catatanqu/pkg/auth"
	"github.com/Ssathosi/catatanqu/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func SetupRouter(
	authHandler *handlers.AuthHandler,
	walletHandler *handlers.WalletHandler,
	transactionHandler *handlers.TransactionHandler,
	savingsHandler *handlers.SavingsHandler,
	reportHandler *handlers.ReportHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes (public)
	authGroup := app.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/verify", authHandler.VerifyPIN)

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	account := protected.Group("/account")
	account.Post("/pin", authHandler.ChangePIN)
	account.Post("/safe-mode", authHandler.SetSafeMode)

	wallets := protected.Group("/wallets")
	wallets.Post("", walletHandler.Create)
	wallets.Get("", walletHandler.List)
	wallets.Post("/transfer", walletHandler.Transfer)
	wallets.Post("/:id/topup", walletHandler.Topup)
	wallets.Get("/:id/logs", walletHandler.Logs)
	wallets.Delete("/:id", walletHandler.Delete)

	transactions := protected.Group("/transactions")
	transactions.Post("/parse", transactionHandler.Parse)
	transactions.Post("/confirm", transactionHandler.Confirm)
	transactions.Post("", transactionHandler.Record)
	transactions.Get("", transactionHandler.List)
	transactions.Put("/:id/category", transactionHandler.UpdateCategory)
	transactions.Delete("/:id", transactionHandler.Delete)

	savings := protected.Group("/savings")
	savings.Post("", savingsHandler.Create)
	savings.Get("", savingsHandler.List)
	savings.Post("/:id/contribute", savingsHandler.Contribute)

	reports := protected.Group("/reports")
	reports.Get("/summary", reportHandler.Summary)
	reports.Get("/overview", reportHandler.Overview)
	reports.Get("/insight", reportHandler.Insight)

	return app
}
