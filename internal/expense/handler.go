package expense

import (
	"strings"
	"time"

	"github.com/Ceacontabil/acai-system/internal/database"
	"github.com/Ceacontabil/acai-system/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateExpenseRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"` // "2025-12-09"
}

type ExpenseResponse struct {
	ID          uint    `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

func toExpenseResponse(e *models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		Category:    e.Category,
		Date:        e.ExpenseDate.Format("2006-01-02"),
	}
}

// POST /api/expenses
func CreateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Description = strings.TrimSpace(body.Description)
		if body.Description == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Descrição é obrigatória")
		}
		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Valor da despesa deve ser maior que zero")
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data deve estar no formato 'YYYY-MM-DD'")
		}

		exp := models.Expense{
			Description: body.Description,
			Amount:      body.Amount,
			Category:    strings.TrimSpace(body.Category),
			ExpenseDate: d,
		}

		if err := database.DB.Create(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível salvar a despesa")
		}

		return c.Status(fiber.StatusCreated).JSON(toExpenseResponse(&exp))
	}
}

// GET /api/expenses?from=...&to=...&category=...
func ListExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Expense{})

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from inválido (use YYYY-MM-DD)")
			}
			dbq = dbq.Where("expense_date >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to inválido (use YYYY-MM-DD)")
			}
			dbq = dbq.Where("expense_date < ?", to.AddDate(0, 0, 1))
		}
		if cat := c.Query("category"); cat != "" {
			dbq = dbq.Where("category = ?", cat)
		}

		var rows []models.Expense
		if err := dbq.Order("expense_date desc, id desc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as despesas")
		}

		res := make([]ExpenseResponse, 0, len(rows))
		for i := range rows {
			res = append(res, toExpenseResponse(&rows[i]))
		}
		return c.JSON(res)
	}
}

// DELETE /api/expenses/:id
func DeleteExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := database.DB.Delete(&models.Expense{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir a despesa")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
