package dashboard

import (
	"time"

	"github.com/Ceacontabil/acai-system/internal/apperr"
	"github.com/Ceacontabil/acai-system/internal/models"
	"github.com/Ceacontabil/acai-system/internal/pote"
	"github.com/Ceacontabil/acai-system/internal/sale"

	"gorm.io/gorm"
)

type Snapshot struct {
	TotalSales     int     `json:"total_sales"`
	TotalRevenue   float64 `json:"total_revenue"`
	TotalCost      float64 `json:"total_cost"`
	GrossProfit    float64 `json:"gross_profit"`
	TotalExpenses  float64 `json:"total_expenses"`
	NetProfit      float64 `json:"net_profit"`
	InventoryValue float64 `json:"inventory_value"`
}

// Summarize agrega vendas e despesas na janela [from, to). O valor do
// estoque usa o estado atual dos potes ativos, independente da janela.
func Summarize(db *gorm.DB, from, to time.Time) (*Snapshot, error) {
	var sales []models.Sale
	if err := db.Preload("Potes.Pote").
		Where("sale_date >= ? AND sale_date < ?", from, to).
		Find(&sales).Error; err != nil {
		return nil, &apperr.StoreError{Op: "buscar vendas", Err: err}
	}

	snap := &Snapshot{TotalSales: len(sales)}
	for i := range sales {
		snap.TotalRevenue += sales[i].TotalPrice
		snap.TotalCost += sale.ResolveCost(&sales[i])
	}
	snap.GrossProfit = snap.TotalRevenue - snap.TotalCost

	var expenses []models.Expense
	if err := db.Where("expense_date >= ? AND expense_date < ?", from, to).
		Find(&expenses).Error; err != nil {
		return nil, &apperr.StoreError{Op: "buscar despesas", Err: err}
	}
	for _, e := range expenses {
		snap.TotalExpenses += e.Amount
	}
	snap.NetProfit = snap.GrossProfit - snap.TotalExpenses

	var potes []models.Pote
	if err := db.Where("status = ?", models.PoteStatusAtivo).Find(&potes).Error; err != nil {
		return nil, &apperr.StoreError{Op: "buscar potes", Err: err}
	}
	for i := range potes {
		snap.InventoryValue += pote.CostPerMl(&potes[i]) * potes[i].RemainingMl
	}

	return snap, nil
}

// LowStock lista os potes ativos no limite de alerta, do mais vazio
// para o mais cheio.
func LowStock(db *gorm.DB) ([]models.Pote, error) {
	var potes []models.Pote
	if err := db.Where("status = ? AND remaining_ml <= low_stock_ml", models.PoteStatusAtivo).
		Order("remaining_ml asc").
		Find(&potes).Error; err != nil {
		return nil, &apperr.StoreError{Op: "buscar potes em estoque baixo", Err: err}
	}
	return potes, nil
}
