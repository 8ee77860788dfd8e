package apperr

import "fmt"

// ValidationError: entrada inválida ou incompleta
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Validation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError: a entidade referenciada não existe
type NotFoundError struct {
	Entity string // "pote", "produto", "venda", "despesa"
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d não encontrado(a)", e.Entity, e.ID)
}

// InsufficientVolumeError: o pote não tem ml suficiente para a parcela pedida
type InsufficientVolumeError struct {
	PoteID      uint
	Flavor      string
	NeededMl    float64
	RemainingMl float64
}

func (e *InsufficientVolumeError) Error() string {
	return fmt.Sprintf("pote %d (%s) sem ml suficiente: precisa de %.0fml, tem %.0fml",
		e.PoteID, e.Flavor, e.NeededMl, e.RemainingMl)
}

func (e *InsufficientVolumeError) ShortfallMl() float64 {
	return e.NeededMl - e.RemainingMl
}

// StoreError: falha do banco no meio de uma operação. Quando acontece
// dentro de uma sequência de escrita, a transação inteira é desfeita.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }
