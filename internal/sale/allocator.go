package sale

import (
	"errors"
	"log"
	"time"

	"github.com/Ceacontabil/acai-system/internal/apperr"
	"github.com/Ceacontabil/acai-system/internal/models"
	"github.com/Ceacontabil/acai-system/internal/pote"

	"gorm.io/gorm"
)

type AllocateInput struct {
	ProductID uint
	PoteIDs   []uint
	Quantity  int
	UnitPrice float64 // 0 = usa o preço de tabela do produto
	Notes     string
	SaleDate  time.Time // zero = agora
}

// Allocate registra uma venda debitando o volume em partes iguais dos
// potes informados ("meio a meio" generalizado para N potes).
// Validação, débitos e gravação da venda rodam na mesma transação: se
// qualquer pote não tiver volume suficiente, nada é alterado.
func Allocate(db *gorm.DB, in AllocateInput) (*models.Sale, error) {
	if in.Quantity <= 0 {
		return nil, apperr.Validation("quantidade deve ser maior que zero")
	}
	if len(in.PoteIDs) == 0 {
		return nil, apperr.Validation("selecione pelo menos um pote")
	}
	seen := make(map[uint]bool, len(in.PoteIDs))
	for _, id := range in.PoteIDs {
		if seen[id] {
			return nil, apperr.Validation("o mesmo pote não pode aparecer duas vezes na venda")
		}
		seen[id] = true
	}
	if in.UnitPrice < 0 {
		return nil, apperr.Validation("preço unitário não pode ser negativo")
	}

	var product models.AcaiProduct
	if err := db.First(&product, "id = ?", in.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Entity: "produto", ID: in.ProductID}
		}
		return nil, &apperr.StoreError{Op: "buscar produto", Err: err}
	}

	totalMl := product.SizeMl * float64(in.Quantity)
	perPoteMl := totalMl / float64(len(in.PoteIDs))

	unitPrice := in.UnitPrice
	if unitPrice == 0 {
		unitPrice = product.SalePrice
	}

	saleDate := in.SaleDate
	if saleDate.IsZero() {
		saleDate = time.Now()
	}

	var created *models.Sale
	err := db.Transaction(func(tx *gorm.DB) error {
		// Confere todos os potes antes de debitar qualquer um
		potes := make([]*models.Pote, 0, len(in.PoteIDs))
		for _, id := range in.PoteIDs {
			var p models.Pote
			if err := tx.First(&p, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &apperr.NotFoundError{Entity: "pote", ID: id}
				}
				return &apperr.StoreError{Op: "buscar pote", Err: err}
			}
			if p.RemainingMl < perPoteMl {
				return &apperr.InsufficientVolumeError{
					PoteID:      p.ID,
					Flavor:      p.Flavor,
					NeededMl:    perPoteMl,
					RemainingMl: p.RemainingMl,
				}
			}
			potes = append(potes, &p)
		}

		totalCost := 0.0
		items := make([]models.SalePote, 0, len(potes))
		for _, p := range potes {
			cost := pote.CostPerMl(p) * perPoteMl
			totalCost += cost
			items = append(items, models.SalePote{
				PoteID:     p.ID,
				MlConsumed: perPoteMl,
				Cost:       cost,
			})
			if _, err := pote.Debit(tx, p.ID, perPoteMl); err != nil {
				return err
			}
		}

		s := models.Sale{
			ProductID:  product.ID,
			Quantity:   in.Quantity,
			UnitPrice:  unitPrice,
			TotalPrice: float64(in.Quantity) * unitPrice,
			TotalCost:  &totalCost,
			MlConsumed: totalMl,
			Notes:      in.Notes,
			SaleDate:   saleDate,
			Potes:      items,
		}
		if err := tx.Create(&s).Error; err != nil {
			return &apperr.StoreError{Op: "registrar venda", Err: err}
		}
		created = &s
		return nil
	})
	if err != nil {
		var se *apperr.StoreError
		if errors.As(err, &se) {
			log.Printf("Falha de banco ao registrar venda (transação desfeita): %v", se)
		}
		return nil, err
	}
	return created, nil
}

// Reverse devolve o volume consumido aos potes e exclui a venda. Usa o
// ml gravado em cada parcela, não o estado atual dos potes. Parcela de
// pote já excluído é ignorada: a venda continua apagável.
func Reverse(db *gorm.DB, saleID uint) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		var s models.Sale
		if err := tx.Preload("Potes").First(&s, "id = ?", saleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &apperr.NotFoundError{Entity: "venda", ID: saleID}
			}
			return &apperr.StoreError{Op: "buscar venda", Err: err}
		}

		for _, item := range s.Potes {
			if item.MlConsumed <= 0 {
				continue
			}
			if _, err := pote.Credit(tx, item.PoteID, item.MlConsumed); err != nil {
				var nf *apperr.NotFoundError
				if errors.As(err, &nf) {
					continue
				}
				return err
			}
		}

		if err := tx.Where("sale_id = ?", s.ID).Delete(&models.SalePote{}).Error; err != nil {
			return &apperr.StoreError{Op: "excluir parcelas da venda", Err: err}
		}
		if err := tx.Delete(&models.Sale{}, "id = ?", s.ID).Error; err != nil {
			return &apperr.StoreError{Op: "excluir venda", Err: err}
		}
		return nil
	})
	if err != nil {
		var se *apperr.StoreError
		if errors.As(err, &se) {
			log.Printf("Falha de banco ao excluir venda (transação desfeita): %v", se)
		}
	}
	return err
}

// ResolveCost: custo da venda. Vendas novas gravam total_cost; para
// registros antigos o custo é recalculado uma vez, aqui, a partir das
// parcelas consumidas (requer Potes.Pote pré-carregado).
func ResolveCost(s *models.Sale) float64 {
	if s.TotalCost != nil {
		return *s.TotalCost
	}
	total := 0.0
	for i := range s.Potes {
		item := &s.Potes[i]
		if item.Cost > 0 {
			total += item.Cost
			continue
		}
		total += pote.CostPerMl(&item.Pote) * item.MlConsumed
	}
	return total
}
