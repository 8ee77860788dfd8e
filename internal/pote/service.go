package pote

import (
	"errors"
	"math"
	"time"

	"github.com/Ceacontabil/acai-system/internal/apperr"
	"github.com/Ceacontabil/acai-system/internal/models"

	"gorm.io/gorm"
)

// DefaultLowStockMl: limite de alerta usado quando o cadastro não define um
const DefaultLowStockMl = 500.0

type RegisterInput struct {
	Flavor       string
	SizeLiters   float64
	CostPrice    float64
	PurchaseDate time.Time
	LowStockMl   float64
}

// Register cria um pote com todo o volume disponível e status ativo.
func Register(db *gorm.DB, in RegisterInput) (*models.Pote, error) {
	totalMl := math.Round(in.SizeLiters * 1000)
	if totalMl <= 0 {
		return nil, apperr.Validation("volume total do pote deve ser maior que zero")
	}
	if in.CostPrice < 0 {
		return nil, apperr.Validation("custo do pote não pode ser negativo")
	}

	lowStock := in.LowStockMl
	if lowStock < 0 {
		return nil, apperr.Validation("limite de estoque baixo não pode ser negativo")
	}
	if lowStock == 0 {
		lowStock = DefaultLowStockMl
	}

	p := &models.Pote{
		Flavor:       in.Flavor,
		SizeLiters:   in.SizeLiters,
		CostPrice:    in.CostPrice,
		PurchaseDate: in.PurchaseDate,
		TotalMl:      totalMl,
		RemainingMl:  totalMl,
		LowStockMl:   lowStock,
		Status:       models.PoteStatusAtivo,
	}

	if err := db.Create(p).Error; err != nil {
		return nil, &apperr.StoreError{Op: "criar pote", Err: err}
	}
	return p, nil
}

// Debit desconta volume do pote. Volume maior que o restante falha
// sem alterar o registro; ao zerar, o pote vira esgotado.
func Debit(db *gorm.DB, poteID uint, volumeMl float64) (*models.Pote, error) {
	if volumeMl <= 0 {
		return nil, apperr.Validation("volume a debitar deve ser maior que zero")
	}

	var p models.Pote
	if err := db.First(&p, "id = ?", poteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Entity: "pote", ID: poteID}
		}
		return nil, &apperr.StoreError{Op: "buscar pote", Err: err}
	}

	if volumeMl > p.RemainingMl {
		return nil, &apperr.InsufficientVolumeError{
			PoteID:      p.ID,
			Flavor:      p.Flavor,
			NeededMl:    volumeMl,
			RemainingMl: p.RemainingMl,
		}
	}

	p.RemainingMl -= volumeMl
	if p.RemainingMl == 0 {
		p.Status = models.PoteStatusEsgotado
	}

	if err := db.Save(&p).Error; err != nil {
		return nil, &apperr.StoreError{Op: "debitar pote", Err: err}
	}
	return &p, nil
}

// Credit devolve volume ao pote (usado ao excluir uma venda). O
// restante nunca passa do total e um pote esgotado volta a ficar ativo.
func Credit(db *gorm.DB, poteID uint, volumeMl float64) (*models.Pote, error) {
	if volumeMl <= 0 {
		return nil, apperr.Validation("volume a devolver deve ser maior que zero")
	}

	var p models.Pote
	if err := db.First(&p, "id = ?", poteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Entity: "pote", ID: poteID}
		}
		return nil, &apperr.StoreError{Op: "buscar pote", Err: err}
	}

	p.RemainingMl += volumeMl
	if p.RemainingMl > p.TotalMl {
		p.RemainingMl = p.TotalMl
	}
	if p.Status == models.PoteStatusEsgotado && p.RemainingMl > 0 {
		p.Status = models.PoteStatusAtivo
	}

	if err := db.Save(&p).Error; err != nil {
		return nil, &apperr.StoreError{Op: "creditar pote", Err: err}
	}
	return &p, nil
}

// CostPerMl: custo por ml fixado na compra do pote. Pote com total
// zero custa zero em vez de dividir por zero.
func CostPerMl(p *models.Pote) float64 {
	if p.TotalMl <= 0 {
		return 0
	}
	return p.CostPrice / p.TotalMl
}
