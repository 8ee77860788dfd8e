package models

import "time"

// Expense: despesa operacional, sem relação com potes ou vendas
type Expense struct {
	ID          uint    `gorm:"primaryKey"`
	Description string  `gorm:"size:255;not null"`
	Amount      float64 `gorm:"not null"`
	Category    string  `gorm:"size:50"`
	ExpenseDate time.Time `gorm:"index;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
