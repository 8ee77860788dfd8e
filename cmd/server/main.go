package main

import (
	"log"
	"strings"

	"github.com/Ceacontabil/acai-system/internal/auth"
	"github.com/Ceacontabil/acai-system/internal/catalog"
	"github.com/Ceacontabil/acai-system/internal/config"
	"github.com/Ceacontabil/acai-system/internal/dashboard"
	"github.com/Ceacontabil/acai-system/internal/database"
	"github.com/Ceacontabil/acai-system/internal/expense"
	"github.com/Ceacontabil/acai-system/internal/pote"
	"github.com/Ceacontabil/acai-system/internal/report"
	"github.com/Ceacontabil/acai-system/internal/sale"

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
			log.Println("Erro inesperado:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Erro inesperado no servidor",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Auth pública
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Rotas protegidas
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Potes de açaí
	protected.Get("/potes", pote.ListPotesHandler())
	protected.Post("/potes", pote.CreatePoteHandler())
	protected.Put("/potes/:id", pote.UpdatePoteHandler())
	protected.Delete("/potes/:id", pote.DeletePoteHandler())

	// Produtos (tamanhos de copo)
	protected.Get("/products", catalog.ListProductsHandler())
	protected.Post("/products", catalog.CreateProductHandler())
	protected.Put("/products/:id", catalog.UpdateProductHandler())
	protected.Delete("/products/:id", catalog.DeleteProductHandler())

	// Vendas
	protected.Get("/sales", sale.ListSalesHandler())
	protected.Post("/sales", sale.CreateSaleHandler())
	protected.Delete("/sales/:id", sale.DeleteSaleHandler())

	// Despesas
	protected.Get("/expenses", expense.ListExpensesHandler())
	protected.Post("/expenses", expense.CreateExpenseHandler())
	protected.Delete("/expenses/:id", expense.DeleteExpenseHandler())

	// Dashboard
	protected.Get("/dashboard/metrics", dashboard.MetricsHandler())
	protected.Get("/dashboard/low-stock", dashboard.LowStockHandler())

	// Relatórios
	protected.Get("/reports/sales/export", report.ExportSalesHandler())

	log.Println("Servidor rodando na porta:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
