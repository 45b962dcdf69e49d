package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrPriceExceeded     = errors.New("el descuento supera el precio")
)

// ValidationError errores de validación por campo. No hubo mutación.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError construye el error con un único campo.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validación: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// PriceExceedsError descuento fijo mayor o igual al precio de uno o más destinos.
// Targets lleva los nombres de los destinos afectados.
type PriceExceedsError struct {
	Targets []string
}

func (e *PriceExceedsError) Error() string {
	return "el valor del descuento supera el precio de: " + strings.Join(e.Targets, ", ")
}

func (e *PriceExceedsError) Is(target error) bool { return target == ErrPriceExceeded }

// NotFoundError recurso referenciado inexistente.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrado", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFound atajo para NotFoundError.
func NewNotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// TechnicalError falla inesperada de infraestructura. El detalle solo se registra en logs.
type TechnicalError struct {
	Op  string
	Err error
}

func (e *TechnicalError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *TechnicalError) Unwrap() error { return e.Err }

// Technical envuelve err como TechnicalError salvo que ya sea un error de dominio conocido.
func Technical(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) {
		return err
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return err
	}
	return &TechnicalError{Op: op, Err: err}
}

// IsDomainError indica si err pertenece a la taxonomía de errores de usuario.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrPriceExceeded) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrUnauthorized)
}
