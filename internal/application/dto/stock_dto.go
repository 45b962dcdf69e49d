package dto

import "time"

// MovementRequest body para POST /api/stock/movements y PUT /api/stock/movements/:id.
type MovementRequest struct {
	ComponentID   string    `json:"component_id" validate:"required,uuid"`
	ComponentType string    `json:"component_type" validate:"required"`
	Quantity      int       `json:"quantity" validate:"required,gt=0"`
	MovementType  string    `json:"movement_type" validate:"required,oneof=in out"`
	SupplierID    *string   `json:"supplier_id,omitempty" validate:"omitempty,uuid"`
	Date          time.Time `json:"date" validate:"required"`
}

// MovementResponse salida de un movimiento de stock.
type MovementResponse struct {
	ID            string    `json:"id"`
	ComponentID   string    `json:"component_id"`
	ComponentType string    `json:"component_type"`
	Quantity      int       `json:"quantity"`
	MovementType  string    `json:"movement_type"`
	SupplierID    *string   `json:"supplier_id,omitempty"`
	Date          time.Time `json:"date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StockLevelResponse cantidad disponible de un componente.
type StockLevelResponse struct {
	ComponentID   string    `json:"component_id"`
	ComponentType string    `json:"component_type"`
	Quantity      int       `json:"quantity"`
	UpdatedAt     time.Time `json:"updated_at"`
}
