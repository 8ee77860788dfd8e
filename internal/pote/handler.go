package pote

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/Ceacontabil/acai-system/internal/apperr"
	"github.com/Ceacontabil/acai-system/internal/database"
	"github.com/Ceacontabil/acai-system/internal/models"

	"github.com/gofiber/fiber/v2"
)

type PoteResponse struct {
	ID           uint    `json:"id"`
	Flavor       string  `json:"flavor"`
	SizeLiters   float64 `json:"size_liters"`
	CostPrice    float64 `json:"cost_price"`
	PurchaseDate string  `json:"purchase_date"`
	TotalMl      float64 `json:"total_ml"`
	RemainingMl  float64 `json:"remaining_ml"`
	RemainingPct float64 `json:"remaining_pct"`
	LowStockMl   float64 `json:"low_stock_ml"`
	CostPerMl    float64 `json:"cost_per_ml"`
	Status       string  `json:"status"`
}

type CreatePoteRequest struct {
	Flavor       string  `json:"flavor"`
	SizeLiters   float64 `json:"size_liters"`
	CostPrice    float64 `json:"cost_price"`
	PurchaseDate string  `json:"purchase_date"` // "2025-12-09"
	LowStockMl   float64 `json:"low_stock_ml"`  // opcional
}

type UpdatePoteRequest struct {
	Flavor       *string  `json:"flavor"`
	SizeLiters   *float64 `json:"size_liters"`
	CostPrice    *float64 `json:"cost_price"`
	PurchaseDate *string  `json:"purchase_date"`
	LowStockMl   *float64 `json:"low_stock_ml"`
}

func toPoteResponse(p *models.Pote) PoteResponse {
	pct := 0.0
	if p.TotalMl > 0 {
		pct = p.RemainingMl / p.TotalMl * 100
	}
	return PoteResponse{
		ID:           p.ID,
		Flavor:       p.Flavor,
		SizeLiters:   p.SizeLiters,
		CostPrice:    p.CostPrice,
		PurchaseDate: p.PurchaseDate.Format("2006-01-02"),
		TotalMl:      p.TotalMl,
		RemainingMl:  p.RemainingMl,
		RemainingPct: pct,
		LowStockMl:   p.LowStockMl,
		CostPerMl:    CostPerMl(p),
		Status:       string(p.Status),
	}
}

// GET /api/potes?status=ativo|esgotado
func ListPotesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Pote{})

		status := c.Query("status")
		switch status {
		case "":
			// todos
		case string(models.PoteStatusAtivo), string(models.PoteStatusEsgotado):
			dbq = dbq.Where("status = ?", status)
		default:
			return fiber.NewError(fiber.StatusBadRequest, "status deve ser 'ativo' ou 'esgotado'")
		}

		var potes []models.Pote
		if err := dbq.Order("purchase_date desc, id desc").Find(&potes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os potes")
		}

		res := make([]PoteResponse, 0, len(potes))
		for i := range potes {
			res = append(res, toPoteResponse(&potes[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/potes
func CreatePoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePoteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Flavor = strings.TrimSpace(body.Flavor)
		if body.Flavor == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Sabor é obrigatório")
		}

		purchaseDate, err := time.Parse("2006-01-02", body.PurchaseDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data de compra deve estar no formato 'YYYY-MM-DD'")
		}

		p, err := Register(database.DB, RegisterInput{
			Flavor:       body.Flavor,
			SizeLiters:   body.SizeLiters,
			CostPrice:    body.CostPrice,
			PurchaseDate: purchaseDate,
			LowStockMl:   body.LowStockMl,
		})
		if err != nil {
			var ve *apperr.ValidationError
			if errors.As(err, &ve) {
				return fiber.NewError(fiber.StatusBadRequest, ve.Message)
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível cadastrar o pote")
		}

		return c.Status(fiber.StatusCreated).JSON(toPoteResponse(p))
	}
}

// PUT /api/potes/:id
func UpdatePoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Pote
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Pote não encontrado")
		}

		var body UpdatePoteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Flavor != nil {
			flavor := strings.TrimSpace(*body.Flavor)
			if flavor == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Sabor não pode ficar vazio")
			}
			p.Flavor = flavor
		}
		if body.CostPrice != nil {
			if *body.CostPrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Custo do pote não pode ser negativo")
			}
			p.CostPrice = *body.CostPrice
		}
		if body.PurchaseDate != nil {
			d, err := time.Parse("2006-01-02", *body.PurchaseDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data de compra deve estar no formato 'YYYY-MM-DD'")
			}
			p.PurchaseDate = d
		}
		if body.LowStockMl != nil {
			if *body.LowStockMl < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Limite de estoque baixo não pode ser negativo")
			}
			p.LowStockMl = *body.LowStockMl
		}
		if body.SizeLiters != nil {
			totalMl := math.Round(*body.SizeLiters * 1000)
			if totalMl <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Volume total do pote deve ser maior que zero")
			}
			consumed := p.TotalMl - p.RemainingMl
			p.SizeLiters = *body.SizeLiters
			p.TotalMl = totalMl
			// preserva o consumo já feito; o restante nunca fica negativo
			p.RemainingMl = totalMl - consumed
			if p.RemainingMl < 0 {
				p.RemainingMl = 0
			}
			if p.RemainingMl == 0 {
				p.Status = models.PoteStatusEsgotado
			} else {
				p.Status = models.PoteStatusAtivo
			}
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o pote")
		}

		return c.JSON(toPoteResponse(&p))
	}
}

// DELETE /api/potes/:id
// Vendas antigas que referenciam o pote ficam órfãs; a exclusão da
// venda continua possível (a devolução ignora pote inexistente).
func DeletePoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := database.DB.Delete(&models.Pote{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o pote")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
