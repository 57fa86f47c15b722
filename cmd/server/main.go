package main

import (
	"log"
	"strings"

	"fintrack-backend/internal/account"
	"fintrack-backend/internal/audit"
	"fintrack-backend/internal/auth"
	"fintrack-backend/internal/budget"
	"fintrack-backend/internal/category"
	"fintrack-backend/internal/config"
	"fintrack-backend/internal/database"
	"fintrack-backend/internal/transaction"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api/v1")

	// Public auth
	api.Post("/users/register", auth.RegisterHandler(cfg))
	api.Post("/users/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/users/me", auth.MeHandler())

	// Hesaplar
	protected.Post("/accounts/create", account.CreateAccountHandler())
	protected.Get("/accounts", account.ListAccountsHandler())
	protected.Get("/accounts/:accountId", account.GetAccountHandler())
	protected.Put("/accounts/:id", account.UpdateAccountHandler())
	protected.Delete("/accounts/:id", account.DeleteAccountHandler())

	// Kategoriler
	protected.Post("/categories", category.CreateCategoryHandler())
	protected.Get("/categories", category.ListCategoriesHandler())
	protected.Get("/categories/family/:categoryId", category.GetCategoryFamilyHandler())
	protected.Put("/categories/:categoryId", category.UpdateCategoryHandler())
	protected.Delete("/categories/:categoryId", category.DeleteCategoryHandler())

	// Budget'lar
	protected.Post("/budgets", budget.CreateBudgetHandler())
	protected.Get("/budgets", budget.ListBudgetsHandler())
	protected.Put("/budgets/:id", budget.UpdateBudgetHandler())
	protected.Delete("/budgets/:id", budget.DeleteBudgetHandler())

	// İşlemler (raporlar, dinamik :transactionId route'undan önce gelmeli)
	protected.Get("/transactions/summary", transaction.TransactionSummaryHandler())
	protected.Get("/transactions/bar-chart", transaction.BarChartHandler())
	protected.Post("/transactions", transaction.CreateTransactionHandler())
	protected.Get("/transactions", transaction.ListTransactionsHandler())
	protected.Put("/transactions/:transactionId", transaction.UpdateTransactionHandler())
	protected.Delete("/transactions/:transactionId", transaction.DeleteTransactionHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
