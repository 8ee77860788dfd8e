package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Ceacontabil/acai-system/internal/database"
	"github.com/Ceacontabil/acai-system/internal/models"
	"github.com/Ceacontabil/acai-system/internal/sale"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/reports/sales/export?from=2025-12-01&to=2025-12-31
// Gera uma planilha XLSX com as vendas do período (to inclusivo).
func ExportSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fromStr := c.Query("from")
		toStr := c.Query("to")
		if fromStr == "" || toStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "from e to são obrigatórios (YYYY-MM-DD)")
		}

		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "from inválido (use YYYY-MM-DD)")
		}
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "to inválido (use YYYY-MM-DD)")
		}

		var sales []models.Sale
		if err := database.DB.Preload("Product").Preload("Potes.Pote").
			Where("sale_date >= ? AND sale_date < ?", from, to.AddDate(0, 0, 1)).
			Order("sale_date asc, id asc").
			Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar as vendas")
		}

		f := excelize.NewFile()
		defer f.Close()

		const sheet = "Vendas"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"Data", "Produto", "Qtd", "Potes", "Receita (R$)", "Custo (R$)", "Lucro (R$)"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		var totalRevenue, totalCost float64
		for row, s := range sales {
			productName := s.Product.Name
			if productName == "" {
				productName = "Produto removido"
			}

			flavors := make([]string, 0, len(s.Potes))
			for i := range s.Potes {
				flavors = append(flavors, fmt.Sprintf("%s (%.0fml)", s.Potes[i].Pote.Flavor, s.Potes[i].MlConsumed))
			}

			cost := sale.ResolveCost(&sales[row])
			totalRevenue += s.TotalPrice
			totalCost += cost

			values := []any{
				s.SaleDate.Format("02/01/2006 15:04"),
				productName,
				s.Quantity,
				strings.Join(flavors, " + "),
				s.TotalPrice,
				cost,
				s.TotalPrice - cost,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				f.SetCellValue(sheet, cell, v)
			}
		}

		// linha de totais
		totalsRow := len(sales) + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", totalsRow), "TOTAL")
		f.SetCellValue(sheet, fmt.Sprintf("E%d", totalsRow), totalRevenue)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", totalsRow), totalCost)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", totalsRow), totalRevenue-totalCost)

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar a planilha")
		}

		filename := fmt.Sprintf("vendas_%s_%s.xlsx", fromStr, toStr)
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
		return c.Send(buf.Bytes())
	}
}
