package models

import "time"

// AcaiProduct: tamanho de copo vendável (nome, ml da porção, preço)
type AcaiProduct struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"size:100;not null"`
	SizeMl    float64 `gorm:"not null"` // ml consumidos por unidade vendida
	SalePrice float64 `gorm:"not null"`
	Category  string  `gorm:"size:50"` // copo, marmita, kids...
	CreatedAt time.Time
	UpdatedAt time.Time
}
