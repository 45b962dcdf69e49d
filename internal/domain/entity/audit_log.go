package entity

import (
	"encoding/json"
	"time"
)

// Eventos de auditoría.
const (
	AuditCreated = "created"
	AuditUpdated = "updated"
	AuditDeleted = "deleted"
)

// Tipos auditables.
const (
	AuditableDiscount      = "discount"
	AuditableStockMovement = "stock_movement"
	AuditableCustomer      = "customer"
)

// AuditLog registro de solo escritura de una mutación.
type AuditLog struct {
	ID            string
	UserID        *string
	Event         string
	AuditableType string
	AuditableID   string
	OldValues     json.RawMessage
	NewValues     json.RawMessage
	URL           string
	IPAddress     string
	UserAgent     string
	CreatedAt     time.Time
}

// RequestMeta datos de la petición que origina una mutación. Se pasa explícitamente a cada
// operación del núcleo (no hay estado global de request).
type RequestMeta struct {
	UserID    string
	IPAddress string
	UserAgent string
	URL       string
}
