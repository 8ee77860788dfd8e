package dashboard

import (
	"time"

	"github.com/Ceacontabil/acai-system/internal/database"

	"github.com/gofiber/fiber/v2"
)

type MetricsResponse struct {
	Period    string `json:"period"` // day | week | month
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Snapshot
}

type LowStockPote struct {
	ID          uint    `json:"id"`
	Flavor      string  `json:"flavor"`
	RemainingMl float64 `json:"remaining_ml"`
	LowStockMl  float64 `json:"low_stock_ml"`
}

// GET /api/dashboard/metrics?period=day|week|month
// day = hoje desde a meia-noite; week = últimos 7 dias; month = últimos 30 dias
func MetricsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		period := c.Query("period", "day")

		now := time.Now()
		var from time.Time
		switch period {
		case "day":
			from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		case "week":
			from = now.AddDate(0, 0, -7)
		case "month":
			from = now.AddDate(0, 0, -30)
		default:
			return fiber.NewError(fiber.StatusBadRequest, "period deve ser 'day', 'week' ou 'month'")
		}

		snap, err := Summarize(database.DB, from, now)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível calcular as métricas")
		}

		return c.JSON(MetricsResponse{
			Period:    period,
			StartDate: from.Format("2006-01-02 15:04"),
			EndDate:   now.Format("2006-01-02 15:04"),
			Snapshot:  *snap,
		})
	}
}

// GET /api/dashboard/low-stock
func LowStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		potes, err := LowStock(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os potes em estoque baixo")
		}

		res := make([]LowStockPote, 0, len(potes))
		for _, p := range potes {
			res = append(res, LowStockPote{
				ID:          p.ID,
				Flavor:      p.Flavor,
				RemainingMl: p.RemainingMl,
				LowStockMl:  p.LowStockMl,
			})
		}
		return c.JSON(res)
	}
}
