package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TargetRequest destino de un descuento: type "server" o un tipo de componente (ram, processor, ...).
type TargetRequest struct {
	Type string `json:"type" validate:"required"`
	ID   string `json:"id" validate:"required,uuid"`
}

// DiscountRequest body para POST /api/discounts y PUT /api/discounts/:id (reemplazo completo).
type DiscountRequest struct {
	Name         string          `json:"name" validate:"required,max=255"`
	DiscountType string          `json:"discount_type" validate:"required,oneof=percentage fixed"`
	Value        decimal.Decimal `json:"value"`
	StartDate    time.Time       `json:"start_date" validate:"required"`
	EndDate      time.Time       `json:"end_date" validate:"required,gtfield=StartDate"`
	Targets      []TargetRequest `json:"targets" validate:"required,min=1,dive"`
}

// TargetResponse destino asociado a un descuento.
type TargetResponse struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// DiscountResponse salida de un descuento con sus destinos.
type DiscountResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	DiscountType string           `json:"discount_type"`
	Value        decimal.Decimal  `json:"value"`
	StartDate    time.Time        `json:"start_date"`
	EndDate      time.Time        `json:"end_date"`
	Scope        string           `json:"scope"`
	Targets      []TargetResponse `json:"targets"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// DiscountListResponse listado de descuentos de un alcance.
type DiscountListResponse struct {
	Scope string             `json:"scope"`
	Items []DiscountResponse `json:"items"`
}

// SweepResponse resultado del barrido de descuentos vencidos.
type SweepResponse struct {
	Swept int `json:"swept"`
}

// PriceTargetResponse servidor o componente con su precio actual.
type PriceTargetResponse struct {
	Type  string          `json:"type"`
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}
