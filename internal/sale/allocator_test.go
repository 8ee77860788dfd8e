package sale

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Ceacontabil/acai-system/internal/apperr"
	"github.com/Ceacontabil/acai-system/internal/database"
	"github.com/Ceacontabil/acai-system/internal/models"
	"github.com/Ceacontabil/acai-system/internal/pote"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("abrir banco de teste: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrar schema: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newPote(t *testing.T, db *gorm.DB, flavor string, liters, cost float64) *models.Pote {
	t.Helper()
	p, err := pote.Register(db, pote.RegisterInput{
		Flavor:       flavor,
		SizeLiters:   liters,
		CostPrice:    cost,
		PurchaseDate: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("cadastrar pote: %v", err)
	}
	return p
}

func newProduct(t *testing.T, db *gorm.DB, name string, sizeMl, price float64) *models.AcaiProduct {
	t.Helper()
	p := &models.AcaiProduct{Name: name, SizeMl: sizeMl, SalePrice: price, Category: "copo"}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("criar produto: %v", err)
	}
	return p
}

func remaining(t *testing.T, db *gorm.DB, poteID uint) float64 {
	t.Helper()
	var p models.Pote
	if err := db.First(&p, "id = ?", poteID).Error; err != nil {
		t.Fatalf("recarregar pote %d: %v", poteID, err)
	}
	return p.RemainingMl
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// Pote de 1000ml a R$10: vender 400ml deixa 600ml e custa R$4.
func TestAllocateSinglePote(t *testing.T) {
	db := openTestDB(t)
	p := newPote(t, db, "açaí puro", 1, 10)
	prod := newProduct(t, db, "Copo 400ml", 400, 15)

	s, err := Allocate(db, AllocateInput{ProductID: prod.ID, PoteIDs: []uint{p.ID}, Quantity: 1})
	if err != nil {
		t.Fatalf("alocar: %v", err)
	}

	if got := remaining(t, db, p.ID); got != 600 {
		t.Fatalf("RemainingMl = %v, esperado 600", got)
	}
	if s.TotalCost == nil || !almostEqual(*s.TotalCost, 4) {
		t.Fatalf("TotalCost = %v, esperado 4.00", s.TotalCost)
	}
	if s.TotalPrice != 15 {
		t.Fatalf("TotalPrice = %v, esperado 15 (preço de tabela)", s.TotalPrice)
	}
	if s.MlConsumed != 400 {
		t.Fatalf("MlConsumed = %v, esperado 400", s.MlConsumed)
	}
	if len(s.Potes) != 1 || s.Potes[0].MlConsumed != 400 {
		t.Fatalf("parcelas = %+v, esperado uma parcela de 400ml", s.Potes)
	}
}

// Meio a meio: 600ml divididos igualmente entre dois potes com 500ml
// cada um, ambos terminam com 200ml.
func TestAllocateSplitAcrossTwoPotes(t *testing.T) {
	db := openTestDB(t)
	p1 := newPote(t, db, "puro", 1, 10)
	p2 := newPote(t, db, "com guaraná", 1, 12)
	for _, p := range []*models.Pote{p1, p2} {
		if _, err := pote.Debit(db, p.ID, 500); err != nil {
			t.Fatalf("preparar pote: %v", err)
		}
	}
	prod := newProduct(t, db, "Copo 600ml", 600, 20)

	s, err := Allocate(db, AllocateInput{ProductID: prod.ID, PoteIDs: []uint{p1.ID, p2.ID}, Quantity: 1})
	if err != nil {
		t.Fatalf("alocar: %v", err)
	}

	if got := remaining(t, db, p1.ID); got != 200 {
		t.Fatalf("pote 1 RemainingMl = %v, esperado 200", got)
	}
	if got := remaining(t, db, p2.ID); got != 200 {
		t.Fatalf("pote 2 RemainingMl = %v, esperado 200", got)
	}

	// a soma das parcelas fecha exatamente com o volume da venda
	var sum float64
	for _, item := range s.Potes {
		sum += item.MlConsumed
	}
	if !almostEqual(sum, s.MlConsumed) {
		t.Fatalf("soma das parcelas = %v, esperado %v", sum, s.MlConsumed)
	}

	// custo rateado: 300ml a 0.01 + 300ml a 0.012
	if s.TotalCost == nil || !almostEqual(*s.TotalCost, 300*0.01+300*0.012) {
		t.Fatalf("TotalCost = %v, esperado %v", s.TotalCost, 300*0.01+300*0.012)
	}
}

// Tudo ou nada: se um dos potes não tem a parcela, nenhum é debitado
// e a venda não é criada.
func TestAllocateInsufficientIsAllOrNothing(t *testing.T) {
	db := openTestDB(t)
	p1 := newPote(t, db, "puro", 1, 10)
	p2 := newPote(t, db, "com banana", 1, 10)
	if _, err := pote.Debit(db, p1.ID, 500); err != nil {
		t.Fatalf("preparar pote 1: %v", err)
	}
	if _, err := pote.Debit(db, p2.ID, 750); err != nil { // sobram 250ml
		t.Fatalf("preparar pote 2: %v", err)
	}
	prod := newProduct(t, db, "Copo 600ml", 600, 20)

	_, err := Allocate(db, AllocateInput{ProductID: prod.ID, PoteIDs: []uint{p1.ID, p2.ID}, Quantity: 1})
	var iv *apperr.InsufficientVolumeError
	if !errors.As(err, &iv) {
		t.Fatalf("erro = %v, esperado InsufficientVolumeError", err)
	}
	if iv.PoteID != p2.ID {
		t.Fatalf("pote apontado = %d, esperado %d", iv.PoteID, p2.ID)
	}
	if iv.ShortfallMl() != 50 {
		t.Fatalf("ShortfallMl = %v, esperado 50", iv.ShortfallMl())
	}

	if got := remaining(t, db, p1.ID); got != 500 {
		t.Fatalf("pote 1 RemainingMl = %v, esperado 500 intacto", got)
	}
	if got := remaining(t, db, p2.ID); got != 250 {
		t.Fatalf("pote 2 RemainingMl = %v, esperado 250 intacto", got)
	}

	var count int64
	db.Model(&models.Sale{}).Count(&count)
	if count != 0 {
		t.Fatalf("vendas criadas = %d, esperado 0", count)
	}
}

func TestAllocateValidation(t *testing.T) {
	db := openTestDB(t)
	p := newPote(t, db, "puro", 1, 10)
	prod := newProduct(t, db, "Copo 300ml", 300, 12)

	tests := []struct {
		name string
		in   AllocateInput
	}{
		{"sem potes", AllocateInput{ProductID: prod.ID, Quantity: 1}},
		{"quantidade zero", AllocateInput{ProductID: prod.ID, PoteIDs: []uint{p.ID}, Quantity: 0}},
		{"pote repetido", AllocateInput{ProductID: prod.ID, PoteIDs: []uint{p.ID, p.ID}, Quantity: 1}},
		{"preço negativo", AllocateInput{ProductID: prod.ID, PoteIDs: []uint{p.ID}, Quantity: 1, UnitPrice: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Allocate(db, tt.in)
			var ve *apperr.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("erro = %v, esperado ValidationError", err)
			}
		})
	}
}

func TestAllocateProductNotFound(t *testing.T) {
	db := openTestDB(t)
	p := newPote(t, db, "puro", 1, 10)

	_, err := Allocate(db, AllocateInput{ProductID: 999, PoteIDs: []uint{p.ID}, Quantity: 1})
	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("erro = %v, esperado NotFoundError", err)
	}
	if nf.Entity != "produto" {
		t.Fatalf("Entity = %q, esperado produto", nf.Entity)
	}
}

// Alocar e excluir em seguida devolve os potes ao estado original.
func TestReverseRoundTrip(t *testing.T) {
	db := openTestDB(t)
	p1 := newPote(t, db, "puro", 1, 10)
	p2 := newPote(t, db, "com guaraná", 2, 24)
	prod := newProduct(t, db, "Copo 500ml", 500, 18)

	before1 := remaining(t, db, p1.ID)
	before2 := remaining(t, db, p2.ID)

	s, err := Allocate(db, AllocateInput{ProductID: prod.ID, PoteIDs: []uint{p1.ID, p2.ID}, Quantity: 2})
	if err != nil {
		t.Fatalf("alocar: %v", err)
	}

	if err := Reverse(db, s.ID); err != nil {
		t.Fatalf("excluir venda: %v", err)
	}

	if got := remaining(t, db, p1.ID); got != before1 {
		t.Fatalf("pote 1 RemainingMl = %v, esperado %v de volta", got, before1)
	}
	if got := remaining(t, db, p2.ID); got != before2 {
		t.Fatalf("pote 2 RemainingMl = %v, esperado %v de volta", got, before2)
	}

	var count int64
	db.Model(&models.Sale{}).Count(&count)
	if count != 0 {
		t.Fatalf("vendas restantes = %d, esperado 0", count)
	}
	db.Model(&models.SalePote{}).Count(&count)
	if count != 0 {
		t.Fatalf("parcelas restantes = %d, esperado 0", count)
	}
}

// A devolução reativa um pote que a venda tinha esgotado.
func TestReverseReactivatesPote(t *testing.T) {
	db := openTestDB(t)
	p := newPote(t, db, "puro", 1, 10)
	prod := newProduct(t, db, "Marmita 1L", 1000, 35)

	s, err := Allocate(db, AllocateInput{ProductID: prod.ID, PoteIDs: []uint{p.ID}, Quantity: 1})
	if err != nil {
		t.Fatalf("alocar: %v", err)
	}

	var drained models.Pote
	if err := db.First(&drained, "id = ?", p.ID).Error; err != nil {
		t.Fatalf("recarregar pote: %v", err)
	}
	if drained.Status != models.PoteStatusEsgotado {
		t.Fatalf("Status = %q, esperado esgotado após a venda", drained.Status)
	}

	if err := Reverse(db, s.ID); err != nil {
		t.Fatalf("excluir venda: %v", err)
	}

	var restored models.Pote
	if err := db.First(&restored, "id = ?", p.ID).Error; err != nil {
		t.Fatalf("recarregar pote: %v", err)
	}
	if restored.Status != models.PoteStatusAtivo || restored.RemainingMl != 1000 {
		t.Fatalf("pote = %q/%vml, esperado ativo/1000ml", restored.Status, restored.RemainingMl)
	}
}

// Pote excluído depois da venda não impede a exclusão da venda; os
// potes que ainda existem recebem a devolução normalmente.
func TestReverseSkipsDeletedPote(t *testing.T) {
	db := openTestDB(t)
	p1 := newPote(t, db, "puro", 1, 10)
	p2 := newPote(t, db, "com morango", 1, 14)
	prod := newProduct(t, db, "Copo 600ml", 600, 20)

	s, err := Allocate(db, AllocateInput{ProductID: prod.ID, PoteIDs: []uint{p1.ID, p2.ID}, Quantity: 1})
	if err != nil {
		t.Fatalf("alocar: %v", err)
	}

	if err := db.Delete(&models.Pote{}, "id = ?", p1.ID).Error; err != nil {
		t.Fatalf("excluir pote 1: %v", err)
	}

	if err := Reverse(db, s.ID); err != nil {
		t.Fatalf("excluir venda: %v", err)
	}

	if got := remaining(t, db, p2.ID); got != 1000 {
		t.Fatalf("pote 2 RemainingMl = %v, esperado 1000 de volta", got)
	}
	var count int64
	db.Model(&models.Sale{}).Count(&count)
	if count != 0 {
		t.Fatalf("vendas restantes = %d, esperado 0", count)
	}
}

func TestReverseNotFound(t *testing.T) {
	db := openTestDB(t)

	err := Reverse(db, 999)
	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("erro = %v, esperado NotFoundError", err)
	}
}

// Venda antiga sem custo gravado: ResolveCost recalcula pelas parcelas.
func TestResolveCostFallback(t *testing.T) {
	db := openTestDB(t)
	p := newPote(t, db, "puro", 1, 10)
	prod := newProduct(t, db, "Copo 400ml", 400, 15)

	s, err := Allocate(db, AllocateInput{ProductID: prod.ID, PoteIDs: []uint{p.ID}, Quantity: 1})
	if err != nil {
		t.Fatalf("alocar: %v", err)
	}

	// simula um registro antigo: apaga o custo gravado
	if err := db.Model(&models.Sale{}).Where("id = ?", s.ID).Update("total_cost", nil).Error; err != nil {
		t.Fatalf("apagar total_cost: %v", err)
	}

	var old models.Sale
	if err := db.Preload("Potes.Pote").First(&old, "id = ?", s.ID).Error; err != nil {
		t.Fatalf("recarregar venda: %v", err)
	}
	if old.TotalCost != nil {
		t.Fatal("TotalCost deveria estar vazio no cenário de registro antigo")
	}
	if got := ResolveCost(&old); !almostEqual(got, 4) {
		t.Fatalf("ResolveCost = %v, esperado 4.00", got)
	}
}
