package models

import "time"

// Sale: venda registrada. O volume consumido é dividido em partes
// iguais entre os potes referenciados (linhas de SalePote).
type Sale struct {
	ID         uint `gorm:"primaryKey"`
	ProductID  uint `gorm:"index;not null"`
	Product    AcaiProduct
	Quantity   int     `gorm:"not null"`
	UnitPrice  float64 `gorm:"not null"`
	TotalPrice float64 `gorm:"not null"`
	// Vendas antigas podem não ter o custo gravado; nesse caso ele é
	// recalculado a partir dos potes consumidos.
	TotalCost  *float64
	MlConsumed float64 `gorm:"not null"` // total da venda, somando todos os potes
	Notes      string  `gorm:"size:255"`
	SaleDate   time.Time  `gorm:"index;not null"`
	Potes      []SalePote `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SalePote: parcela da venda debitada de um pote
type SalePote struct {
	ID         uint `gorm:"primaryKey"`
	SaleID     uint `gorm:"index;not null"`
	PoteID     uint `gorm:"index;not null"`
	Pote       Pote
	MlConsumed float64 `gorm:"not null"`
	Cost       float64 `gorm:"not null"` // custo rateado desta parcela
}
