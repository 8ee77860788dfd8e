package sale

import (
	"errors"
	"fmt"
	"time"

	"github.com/Ceacontabil/acai-system/internal/apperr"
	"github.com/Ceacontabil/acai-system/internal/database"
	"github.com/Ceacontabil/acai-system/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateSaleRequest struct {
	ProductID uint    `json:"product_id"`
	PoteIDs   []uint  `json:"pote_ids"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"` // opcional, 0 = preço de tabela
	Notes     string  `json:"notes"`
}

type SalePoteResponse struct {
	PoteID     uint    `json:"pote_id"`
	Flavor     string  `json:"flavor"`
	MlConsumed float64 `json:"ml_consumed"`
	Cost       float64 `json:"cost"`
}

type SaleResponse struct {
	ID          uint               `json:"id"`
	ProductID   uint               `json:"product_id"`
	ProductName string             `json:"product_name"`
	Quantity    int                `json:"quantity"`
	UnitPrice   float64            `json:"unit_price"`
	TotalPrice  float64            `json:"total_price"`
	TotalCost   float64            `json:"total_cost"`
	Profit      float64            `json:"profit"`
	MlConsumed  float64            `json:"ml_consumed"`
	Notes       string             `json:"notes"`
	SaleDate    string             `json:"sale_date"`
	Potes       []SalePoteResponse `json:"potes"`
}

func toSaleResponse(s *models.Sale) SaleResponse {
	productName := s.Product.Name
	if productName == "" {
		productName = "Produto removido"
	}

	potes := make([]SalePoteResponse, 0, len(s.Potes))
	for i := range s.Potes {
		item := &s.Potes[i]
		potes = append(potes, SalePoteResponse{
			PoteID:     item.PoteID,
			Flavor:     item.Pote.Flavor,
			MlConsumed: item.MlConsumed,
			Cost:       item.Cost,
		})
	}

	cost := ResolveCost(s)
	return SaleResponse{
		ID:          s.ID,
		ProductID:   s.ProductID,
		ProductName: productName,
		Quantity:    s.Quantity,
		UnitPrice:   s.UnitPrice,
		TotalPrice:  s.TotalPrice,
		TotalCost:   cost,
		Profit:      s.TotalPrice - cost,
		MlConsumed:  s.MlConsumed,
		Notes:       s.Notes,
		SaleDate:    s.SaleDate.Format("2006-01-02 15:04"),
		Potes:       potes,
	}
}

// mapAllocError traduz os erros do alocador para respostas HTTP
func mapAllocError(err error) error {
	var ve *apperr.ValidationError
	var nf *apperr.NotFoundError
	var iv *apperr.InsufficientVolumeError

	switch {
	case errors.As(err, &ve):
		return fiber.NewError(fiber.StatusBadRequest, ve.Message)
	case errors.As(err, &nf):
		return fiber.NewError(fiber.StatusNotFound,
			fmt.Sprintf("%s não encontrado(a)", capitalize(nf.Entity)))
	case errors.As(err, &iv):
		return fiber.NewError(fiber.StatusConflict,
			fmt.Sprintf("Pote %s sem ML suficiente! Precisa de %.0fml, tem %.0fml (faltam %.0fml)",
				iv.Flavor, iv.NeededMl, iv.RemainingMl, iv.ShortfallMl()))
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Erro ao registrar venda")
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// POST /api/sales
func CreateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		s, err := Allocate(database.DB, AllocateInput{
			ProductID: body.ProductID,
			PoteIDs:   body.PoteIDs,
			Quantity:  body.Quantity,
			UnitPrice: body.UnitPrice,
			Notes:     body.Notes,
		})
		if err != nil {
			return mapAllocError(err)
		}

		// recarrega com produto e potes para a resposta
		var full models.Sale
		if err := database.DB.Preload("Product").Preload("Potes.Pote").First(&full, "id = ?", s.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Venda registrada, mas não foi possível carregar os detalhes")
		}

		return c.Status(fiber.StatusCreated).JSON(toSaleResponse(&full))
	}
}

func parseDateQuery(c *fiber.Ctx, key string) (time.Time, bool) {
	v := c.Query(key)
	if v == "" {
		return time.Time{}, false
	}
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// GET /api/sales?from=...&to=...
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Sale{}).
			Preload("Product").
			Preload("Potes.Pote")

		if from, ok := parseDateQuery(c, "from"); ok {
			dbq = dbq.Where("sale_date >= ?", from)
		} else if c.Query("from") != "" {
			return fiber.NewError(fiber.StatusBadRequest, "from inválido (use YYYY-MM-DD)")
		}
		if to, ok := parseDateQuery(c, "to"); ok {
			dbq = dbq.Where("sale_date < ?", to.AddDate(0, 0, 1))
		} else if c.Query("to") != "" {
			return fiber.NewError(fiber.StatusBadRequest, "to inválido (use YYYY-MM-DD)")
		}

		var sales []models.Sale
		if err := dbq.Order("sale_date desc, id desc").Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as vendas")
		}

		res := make([]SaleResponse, 0, len(sales))
		for i := range sales {
			res = append(res, toSaleResponse(&sales[i]))
		}
		return c.JSON(res)
	}
}

// DELETE /api/sales/:id
// O ML consumido é devolvido ao(s) pote(s) antes da exclusão.
func DeleteSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id inválido")
		}

		if err := Reverse(database.DB, uint(id)); err != nil {
			var nf *apperr.NotFoundError
			if errors.As(err, &nf) {
				return fiber.NewError(fiber.StatusNotFound, "Venda não encontrada")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir a venda")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
