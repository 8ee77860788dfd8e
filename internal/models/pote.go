package models

import "time"

type PoteStatus string

const (
	PoteStatusAtivo    PoteStatus = "ativo"
	PoteStatusEsgotado PoteStatus = "esgotado"
)

// Pote: balde de açaí comprado a granel, controlado em ml
type Pote struct {
	ID           uint    `gorm:"primaryKey"`
	Flavor       string  `gorm:"size:100;not null"` // sabor (puro, com guaraná...)
	SizeLiters   float64 `gorm:"not null"`
	CostPrice    float64 `gorm:"not null"` // custo do pote inteiro
	PurchaseDate time.Time `gorm:"index;not null"`
	TotalMl      float64 `gorm:"not null"`
	RemainingMl  float64 `gorm:"not null"`
	LowStockMl   float64 `gorm:"not null;default:0"` // limite de alerta de estoque baixo
	Status       PoteStatus `gorm:"size:20;not null;default:ativo"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
