package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementIn  = "in"  // entrada
	MovementOut = "out" // salida
)

// StockLevel cantidad disponible de un componente concreto. Se crea en el primer movimiento.
type StockLevel struct {
	ComponentID   string
	ComponentType ComponentKind
	Quantity      int // >= 0
	UpdatedAt     time.Time
}

// Key identifica el nivel por (tipo, id).
func (l *StockLevel) Key() StockKey {
	return StockKey{ComponentType: l.ComponentType, ComponentID: l.ComponentID}
}

// StockKey clave (component_type, component_id) de un StockLevel.
type StockKey struct {
	ComponentType ComponentKind
	ComponentID   string
}

// Less orden total para tomar bloqueos de filas siempre en el mismo orden.
func (k StockKey) Less(o StockKey) bool {
	if k.ComponentType != o.ComponentType {
		return k.ComponentType < o.ComponentType
	}
	return k.ComponentID < o.ComponentID
}

// StockMovement asiento del libro de stock (in/out). Editar o borrar un asiento
// deshace su efecto sobre el StockLevel en la misma transacción.
type StockMovement struct {
	ID            string
	ComponentID   string
	ComponentType ComponentKind
	Quantity      int // siempre positiva; el signo lo da MovementType
	MovementType  string
	SupplierID    *string
	Date          time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Key clave del StockLevel afectado.
func (m *StockMovement) Key() StockKey {
	return StockKey{ComponentType: m.ComponentType, ComponentID: m.ComponentID}
}

// Delta efecto con signo sobre el StockLevel.
func (m *StockMovement) Delta() int {
	if m.MovementType == MovementOut {
		return -m.Quantity
	}
	return m.Quantity
}
